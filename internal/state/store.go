package state

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/waitwatch/internal/waitlist"
)

// Level classifies the most recent status message.
type Level int

const (
	LevelNone Level = iota
	LevelSuccess
	LevelError
)

// Message is a human-readable status line shown to the operator.
type Message struct {
	Text  string
	Level Level
	At    time.Time
}

// IsZero reports whether no message has been recorded.
func (m Message) IsZero() bool {
	return m.Text == ""
}

// Snapshot is a copy of the selection state at a point in time.
type Snapshot struct {
	Selected  waitlist.ID // waitlist.None until a selection is known
	Loading   bool        // true while a push is in flight
	Message   Message
	UpdatedAt time.Time
}

// HasSelection reports whether a selection is known.
func (s Snapshot) HasSelection() bool {
	return s.Selected != waitlist.None
}

// Patch lists the fields a Set call overwrites. Nil fields are left alone.
type Patch struct {
	Selected *waitlist.ID
	Loading  *bool
	Message  *Message
}

// Listener receives the state after every mutation.
type Listener func(Snapshot)

// Store holds the selection state and notifies subscribers on change.
// The zero value is ready to use.
type Store struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	events    uint64
	nextID    int
	listeners map[int]Listener
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Set overwrites the fields present in p and notifies every subscriber
// before returning. Each call counts as one mutation event.
func (s *Store) Set(p Patch) {
	s.Update(func(snap *Snapshot) bool {
		if p.Selected != nil {
			snap.Selected = *p.Selected
		}
		if p.Loading != nil {
			snap.Loading = *p.Loading
		}
		if p.Message != nil {
			snap.Message = *p.Message
		}
		return true
	})
}

// Update runs fn on a copy of the state with the store locked. When fn
// returns true the copy is committed as one mutation event and subscribers
// are notified after the lock is released. When it returns false the copy is
// dropped and nobody is notified. fn must not call back into the store.
// Update reports whether a mutation was recorded.
func (s *Store) Update(fn func(snap *Snapshot) bool) bool {
	s.mu.Lock()
	next := s.snapshot
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	next.UpdatedAt = time.Now()
	s.snapshot = next
	s.events++
	listeners := make([]Listener, 0, len(s.listeners))
	// Notification order follows subscription order.
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	// Listeners run with no lock held, so they may read the store or
	// trigger further writes.
	for _, fn := range listeners {
		fn(next)
	}
	return true
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Events returns the number of mutations applied so far.
func (s *Store) Events() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
