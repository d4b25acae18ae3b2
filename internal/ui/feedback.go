package ui

// Feedback turns engine push outcomes into UI signals: a flash on success,
// the terminal bell on failure. It implements engine.Feedback.
type Feedback struct {
	ch chan bool
}

// NewFeedback returns a Feedback ready to hand to the engine before the UI
// starts. Signals beyond the buffer are dropped rather than blocking a push.
func NewFeedback() *Feedback {
	return &Feedback{ch: make(chan bool, 8)}
}

func (f *Feedback) Success() { f.send(true) }
func (f *Feedback) Failure() { f.send(false) }

func (f *Feedback) send(ok bool) {
	select {
	case f.ch <- ok:
	default:
	}
}
