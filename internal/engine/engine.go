package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/waitwatch/internal/logging"
	"github.com/five82/waitwatch/internal/state"
	"github.com/five82/waitwatch/internal/waitapi"
	"github.com/five82/waitwatch/internal/waitlist"
)

// SuccessMessage is recorded after the server confirms a push.
const SuccessMessage = "Wait time updated successfully"

const defaultPollInterval = 2 * time.Second

var (
	// ErrClosed is returned by SelectOption after Close.
	ErrClosed = errors.New("engine closed")
	// ErrInvalidOption is returned for ids outside the wait list.
	ErrInvalidOption = errors.New("invalid option")
)

// Feedback is notified once per finished push. The UI maps it to a bell or a
// flash; tests count calls.
type Feedback interface {
	Success()
	Failure()
}

// NopFeedback ignores every signal.
type NopFeedback struct{}

func (NopFeedback) Success() {}
func (NopFeedback) Failure() {}

// Options tune an Engine.
type Options struct {
	PollInterval time.Duration // zero uses 2s
	Logger       *logging.Logger
}

// Engine reconciles the local store with the remote service. It is the only
// writer of the store.
type Engine struct {
	store    *state.Store
	remote   waitapi.Remote
	feedback Feedback
	log      *logging.Logger
	interval time.Duration
	now      func() time.Time

	// mu guards the push bookkeeping below. Store writes that depend on it
	// take mu inside a store Update, so the check and the write are one
	// step. mu is never held while the store notifies listeners.
	mu       sync.Mutex
	inflight int    // pushes awaiting a response
	pushGen  uint64 // bumped when a push starts
	closed   bool
}

// endpointChecker is implemented by remotes that can tell without any I/O
// that every request would fail.
type endpointChecker interface {
	Valid() bool
}

// New builds an Engine. A nil feedback is replaced by NopFeedback and a nil
// logger by the process logger.
func New(store *state.Store, remote waitapi.Remote, feedback Feedback, opts Options) *Engine {
	if feedback == nil {
		feedback = NopFeedback{}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Get()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Engine{
		store:    store,
		remote:   remote,
		feedback: feedback,
		log:      log.With("component", "engine"),
		interval: interval,
		now:      time.Now,
	}
}

// Interval returns the polling cadence.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// SelectOption pushes id to the server and records the outcome in the store.
// It blocks until the push finishes. Failures are not retried.
func (e *Engine) SelectOption(ctx context.Context, id waitlist.ID) error {
	if !id.Valid() {
		if !e.recordFailure(fmt.Sprintf("Invalid option: %d", int(id))) {
			return ErrClosed
		}
		return fmt.Errorf("%w: %d", ErrInvalidOption, int(id))
	}
	if c, ok := e.remote.(endpointChecker); ok && !c.Valid() {
		if !e.recordFailure("Invalid endpoint configuration") {
			return ErrClosed
		}
		e.log.Warn("push skipped", "option", int(id), "error", waitapi.ErrInvalidEndpoint)
		return waitapi.ErrInvalidEndpoint
	}

	started := e.store.Update(func(snap *state.Snapshot) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return false
		}
		e.inflight++
		e.pushGen++
		snap.Loading = true
		return true
	})
	if !started {
		return ErrClosed
	}

	start := e.now()
	err := e.remote.PushSelection(ctx, int(id))
	elapsed := time.Since(start)

	recorded := e.store.Update(func(snap *state.Snapshot) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			// Torn down while the request was in flight.
			return false
		}
		e.inflight--
		snap.Loading = e.inflight > 0
		if err != nil {
			snap.Message = state.Message{Text: pushErrorMessage(err), Level: state.LevelError, At: e.now()}
			return true
		}
		snap.Selected = id
		snap.Message = state.Message{Text: SuccessMessage, Level: state.LevelSuccess, At: e.now()}
		return true
	})
	if !recorded {
		return ErrClosed
	}

	if err != nil {
		e.log.Warn("push failed", "option", int(id), "error", err, "duration", elapsed)
		e.feedback.Failure()
		return err
	}
	e.log.Info("selection pushed", "option", int(id), "label", id.Label(), "duration", elapsed)
	e.feedback.Success()
	return nil
}

// RefreshCurrentSelection reads the server's selection and copies it into
// the store when it differs. It does nothing while a push is in flight, and
// every failure is swallowed; the next tick tries again.
func (e *Engine) RefreshCurrentSelection(ctx context.Context) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if e.inflight > 0 {
		e.mu.Unlock()
		e.log.Debug("poll skipped", "reason", "push in flight")
		return
	}
	gen := e.pushGen
	e.mu.Unlock()

	raw, err := e.remote.FetchCurrent(ctx)
	if err != nil {
		e.log.Debug("poll failed", "error", err)
		return
	}
	current := waitlist.ID(raw)
	if !current.Valid() {
		e.log.Debug("poll ignored unknown option", "option", raw)
		return
	}

	var stale bool
	changed := e.store.Update(func(snap *state.Snapshot) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || e.inflight > 0 || e.pushGen != gen {
			// A push started after this read was issued; its result wins.
			stale = true
			return false
		}
		if snap.Selected == current {
			return false
		}
		snap.Selected = current
		return true
	})
	switch {
	case stale:
		e.log.Debug("poll dropped", "reason", "stale", "option", raw)
	case changed:
		e.log.Info("selection changed remotely", "option", raw, "label", current.Label())
	}
}

// Close detaches the engine from the store. Responses that arrive later are
// dropped and further calls are no-ops. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

// recordFailure stores an error message and fires failure feedback. It
// reports false when the engine is closed.
func (e *Engine) recordFailure(text string) bool {
	ok := e.store.Update(func(snap *state.Snapshot) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return false
		}
		snap.Message = state.Message{Text: text, Level: state.LevelError, At: e.now()}
		return true
	})
	if ok {
		e.feedback.Failure()
	}
	return ok
}

func pushErrorMessage(err error) string {
	var transportErr *waitapi.TransportError
	var statusErr *waitapi.StatusError
	switch {
	case errors.Is(err, waitapi.ErrInvalidEndpoint):
		return "Invalid endpoint configuration"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server error: %d", statusErr.Code)
	case errors.As(err, &transportErr):
		return "Network error: " + transportErr.Description()
	default:
		return "Invalid response: " + err.Error()
	}
}
