package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/five82/waitwatch/internal/config"
	"github.com/five82/waitwatch/internal/engine"
	"github.com/five82/waitwatch/internal/logging"
	"github.com/five82/waitwatch/internal/prefs"
	"github.com/five82/waitwatch/internal/state"
	"github.com/five82/waitwatch/internal/ui"
	"github.com/five82/waitwatch/internal/waitapi"
)

// Options configure the waitwatch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/waitwatch/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
	Endpoint   string // overrides the config endpoint when set
}

// runtime holds the wired components shared by Run and tests.
type runtime struct {
	cfg      config.Config
	prefs    prefs.Prefs
	log      *logging.Logger
	client   *waitapi.Client
	store    *state.Store
	engine   *engine.Engine
	feedback *ui.Feedback
}

// Run boots the waitwatch TUI until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Close() }()

	rt.log.Info("starting", "endpoint", rt.client.Endpoint(), "poll", rt.cfg.PollInterval)

	poller := rt.engine.StartPolling(ctx)
	defer rt.engine.Close()
	defer poller.Stop()

	err = ui.Run(ui.Options{
		Context:   ctx,
		Store:     rt.store,
		Selector:  rt.engine,
		Feedback:  rt.feedback,
		Endpoint:  rt.client.Endpoint(),
		PollEvery: rt.cfg.PollInterval,
		ThemeName: rt.prefs.Theme,
		Bell:      rt.prefs.BellEnabled(),
		PrefsPath: opts.PrefsPath,
	})
	rt.log.Info("stopped", "error", err)
	return err
}

func setup(opts Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if ep := strings.TrimSpace(opts.Endpoint); ep != "" {
		cfg.Endpoint = ep
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logging.Init(logging.Config{
		FilePath: cfg.LogFile,
		Level:    logging.ParseLevel(cfg.LogLevel),
		Format:   logging.ParseFormat(cfg.LogFormat),
	})

	client, err := waitapi.NewClient(cfg.Endpoint, cfg.APIKey, waitapi.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}
	feedback := ui.NewFeedback()
	eng := engine.New(store, client, feedback, engine.Options{
		PollInterval: cfg.PollInterval,
		Logger:       log,
	})

	return &runtime{
		cfg:      cfg,
		prefs:    prefs.Load(opts.PrefsPath),
		log:      log,
		client:   client,
		store:    store,
		engine:   eng,
		feedback: feedback,
	}, nil
}
