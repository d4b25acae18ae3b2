// Package engine keeps the local selection in step with the remote
// wait-time service.
//
// # Overview
//
// The Engine is the only writer of state.Store. It has two operations:
//
//   - SelectOption pushes a new selection chosen by the operator.
//   - RefreshCurrentSelection reads the server's selection and reconciles it.
//
// StartPolling runs RefreshCurrentSelection immediately and then every
// interval (default 2 seconds) until the returned Poller is stopped.
//
// # Push State Machine
//
//	Idle ──SelectOption──> Sending ──200──────> Success ──> Idle
//	                          │
//	                          └──error/non-200──> Failure ──> Idle
//
// A client whose endpoint cannot be used fails before Sending: only the
// "Invalid endpoint configuration" message is recorded and no request is
// made. While Sending the store reports Loading. Success records the new
// selection, a confirmation message and fires Feedback.Success. Failure
// records "Network error: ..." or "Server error: <code>" and fires
// Feedback.Failure. Nothing is retried; the operator selects again.
//
// # Polling
//
// A refresh is skipped without any network call while a push is in flight.
// A read that was issued before a push started is discarded when it lands,
// so a stale server value never overwrites a newer push. Identical values
// do not touch the store, which keeps subscribers quiet. Poll failures are
// logged at debug level and otherwise ignored.
//
// # Concurrency Model
//
// Engine.mu guards the push bookkeeping (in-flight count, push generation,
// closed flag). Every store write that depends on it runs inside
// state.Store.Update, which takes the store lock and then Engine.mu, so a
// check and its write land together. Listeners are notified after both locks
// are released, which lets a subscriber call back into the engine. Network
// calls run without any lock. Overlapping pushes are not
// sequenced; the last response to arrive wins and Loading stays set until
// the final one finishes.
//
// # Teardown
//
//	p := eng.StartPolling(ctx)
//	defer eng.Close()
//	defer p.Stop()
//
// Close detaches the engine: responses that land afterwards are dropped.
package engine
