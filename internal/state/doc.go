// Package state holds the selection state shared between the sync engine and
// the UI.
//
// # Overview
//
// Store is a small observable container. The sync engine is its only writer;
// the UI subscribes and re-renders on every mutation.
//
//	Writer (engine):               Readers (UI):
//	┌────────────────┐            ┌──────────────────┐
//	│ store.Set(p)   │──notify───→│ listener(snap)   │
//	│                │            │ store.Snapshot() │
//	└────────────────┘            └──────────────────┘
//
// # Update Semantics
//
// Set overwrites only the non-nil fields of a Patch and then calls every
// listener synchronously, outside the lock, before returning. Each Set call
// is one mutation event, even when the values did not change.
//
// Update is the conditional form: the callback inspects and edits the state
// under the lock and returns false to leave it untouched. Writers use it to
// make a check and the write that depends on it atomic, and to skip
// notifications when nothing changed.
//
// # Concurrency Model
//
// A sync.RWMutex guards the snapshot and the listener table. Snapshot takes
// the read lock; Update, Set and Subscribe take the write lock only while
// copying. No lock is held while listeners run, so a listener may call back
// into code that writes the store.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
//
// Events returns the number of mutations, which makes "no redundant
// notifications" easy to assert.
package state
