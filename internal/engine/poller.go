package engine

import (
	"context"
	"sync"
	"time"
)

// Poller is the handle for a running refresh loop. The owner must call Stop
// on teardown.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartPolling refreshes the selection immediately and then on every
// interval until the returned Poller is stopped or ctx is cancelled.
func (e *Engine) StartPolling(ctx context.Context) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			e.RefreshCurrentSelection(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return p
}

// Stop cancels the schedule and waits for an in-progress refresh to return.
// It is safe to call more than once.
func (p *Poller) Stop() {
	if p == nil {
		return
	}
	p.once.Do(p.cancel)
	<-p.done
}

// Done is closed once the loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
