package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/waitwatch/internal/config"
	"github.com/five82/waitwatch/internal/waitapi"
	"github.com/five82/waitwatch/internal/waitapi/waitapitest"
	"github.com/five82/waitwatch/internal/waitlist"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSetup_RejectsMissingKey(t *testing.T) {
	t.Setenv("WAITWATCH_API_KEY", "")
	t.Setenv("WAITWATCH_ENDPOINT", "")

	_, err := setup(Options{ConfigPath: writeConfig(t, `endpoint = "https://example.com/x"`)})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestSetup_RejectsMalformedEndpoint(t *testing.T) {
	t.Setenv("WAITWATCH_API_KEY", "")
	t.Setenv("WAITWATCH_ENDPOINT", "")

	_, err := setup(Options{
		ConfigPath: writeConfig(t, `api_key = "k"`),
		Endpoint:   "ftp://example.com",
	})
	assert.ErrorIs(t, err, waitapi.ErrInvalidEndpoint)
}

func TestRun_ReturnsConfigErrorsBeforeUI(t *testing.T) {
	err := Run(context.Background(), Options{ConfigPath: writeConfig(t, `endpoint = [`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestSetup_WiresEngineToServer(t *testing.T) {
	t.Setenv("WAITWATCH_API_KEY", "")
	t.Setenv("WAITWATCH_ENDPOINT", "")

	srv := waitapitest.New("secret")
	t.Cleanup(srv.Close)
	srv.SetCurrent(4)

	logPath := filepath.Join(t.TempDir(), "waitwatch.log")
	cfgPath := writeConfig(t, `
api_key = "secret"
poll_interval = "20ms"
log_file = "`+logPath+`"
log_level = "debug"
`)

	rt, err := setup(Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		Endpoint:   srv.Endpoint(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.log.Close() })

	assert.Equal(t, srv.Endpoint(), rt.client.Endpoint())
	assert.Equal(t, 20*time.Millisecond, rt.engine.Interval())
	assert.Equal(t, "Dracula", rt.prefs.Theme)
	assert.True(t, rt.log.IsEnabled())

	poller := rt.engine.StartPolling(context.Background())
	t.Cleanup(poller.Stop)

	require.Eventually(t, func() bool {
		return rt.store.Snapshot().Selected == 4
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, rt.engine.SelectOption(context.Background(), waitlist.ID(1)))
	current, _ := srv.Current()
	assert.Equal(t, 1, current)

	for _, r := range srv.Requests() {
		assert.Equal(t, "secret", r.APIKey)
	}
}

func TestSetup_PollFlagOverridesConfig(t *testing.T) {
	t.Setenv("WAITWATCH_API_KEY", "k")
	t.Setenv("WAITWATCH_ENDPOINT", "")

	rt, err := setup(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		PollEvery:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, rt.engine.Interval())
	assert.False(t, rt.log.IsEnabled())
}
