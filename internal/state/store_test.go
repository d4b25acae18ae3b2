package state

import (
	"sync"
	"testing"
	"time"

	"github.com/five82/waitwatch/internal/waitlist"
)

func TestStore_ZeroValue(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.HasSelection() || snap.Selected != waitlist.None {
		t.Fatalf("Selected = %v, want none", snap.Selected)
	}
	if snap.Loading {
		t.Fatalf("Loading = true, want false")
	}
	if !snap.Message.IsZero() {
		t.Fatalf("Message = %#v, want zero", snap.Message)
	}
	if s.Events() != 0 {
		t.Fatalf("Events = %d, want 0", s.Events())
	}
}

func TestStore_SetOverwritesOnlyGivenFields(t *testing.T) {
	var s Store

	s.Set(Patch{Selected: Ptr(waitlist.ID(2)), Loading: Ptr(true)})
	before := time.Now()
	s.Set(Patch{Loading: Ptr(false)})

	snap := s.Snapshot()
	if snap.Selected != 2 {
		t.Fatalf("Selected = %v, want 2", snap.Selected)
	}
	if snap.Loading {
		t.Fatalf("Loading = true, want false")
	}
	if snap.UpdatedAt.Before(before) {
		t.Fatalf("UpdatedAt = %v, want >= %v", snap.UpdatedAt, before)
	}
	if s.Events() != 2 {
		t.Fatalf("Events = %d, want 2", s.Events())
	}
}

func TestStore_SetNotifiesSynchronously(t *testing.T) {
	var s Store

	var got []Snapshot
	s.Subscribe(func(snap Snapshot) {
		// Reading the store from a listener must not deadlock.
		_ = s.Snapshot()
		got = append(got, snap)
	})

	msg := Message{Text: "hello", Level: LevelSuccess}
	s.Set(Patch{Message: &msg})

	if len(got) != 1 {
		t.Fatalf("listener called %d times, want 1", len(got))
	}
	if got[0].Message.Text != "hello" || got[0].Message.Level != LevelSuccess {
		t.Fatalf("listener saw %#v, want hello/success", got[0].Message)
	}
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	var s Store

	var first, second int
	unsubFirst := s.Subscribe(func(Snapshot) { first++ })
	s.Subscribe(func(Snapshot) { second++ })

	s.Set(Patch{Loading: Ptr(true)})
	unsubFirst()
	unsubFirst()
	s.Set(Patch{Loading: Ptr(false)})

	if first != 1 {
		t.Fatalf("first listener calls = %d, want 1", first)
	}
	if second != 2 {
		t.Fatalf("second listener calls = %d, want 2", second)
	}
}

func TestStore_NotifiesInSubscriptionOrder(t *testing.T) {
	var s Store

	var order []int
	for i := range 5 {
		s.Subscribe(func(Snapshot) { order = append(order, i) })
	}
	s.Set(Patch{})

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want ascending", order)
		}
	}
}

func TestStore_NilListenerIgnored(t *testing.T) {
	var s Store
	unsub := s.Subscribe(nil)
	unsub()
	s.Set(Patch{Loading: Ptr(true)})
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	s.Subscribe(func(Snapshot) {})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(Patch{Selected: Ptr(waitlist.ID(i%4 + 1))})
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	if s.Events() != 8 {
		t.Fatalf("Events = %d, want 8", s.Events())
	}
}

func TestStore_UpdateFalseLeavesStateAlone(t *testing.T) {
	var s Store
	s.Set(Patch{Selected: Ptr(waitlist.ID(1))})

	notified := 0
	s.Subscribe(func(Snapshot) { notified++ })

	applied := s.Update(func(snap *Snapshot) bool {
		snap.Selected = 4
		return false
	})

	if applied {
		t.Fatalf("Update reported a mutation after returning false")
	}
	if got := s.Snapshot().Selected; got != 1 {
		t.Fatalf("Selected = %v, want 1 (edit should be dropped)", got)
	}
	if s.Events() != 1 || notified != 0 {
		t.Fatalf("events = %d, notified = %d; want 1 and 0", s.Events(), notified)
	}
}

func TestStore_UpdateCommitsAndNotifiesOnce(t *testing.T) {
	var s Store
	var seen []Snapshot
	s.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	applied := s.Update(func(snap *Snapshot) bool {
		snap.Selected = 3
		snap.Loading = true
		return true
	})

	if !applied {
		t.Fatalf("Update returned false")
	}
	if len(seen) != 1 || seen[0].Selected != 3 || !seen[0].Loading {
		t.Fatalf("notifications = %#v, want one with Selected=3 Loading=true", seen)
	}
	if seen[0].UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not stamped")
	}
}

func TestStore_ListenerMayWrite(t *testing.T) {
	var s Store
	s.Subscribe(func(snap Snapshot) {
		if snap.Loading {
			s.Set(Patch{Loading: Ptr(false)})
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Set(Patch{Loading: Ptr(true)})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Set from a listener deadlocked")
	}

	if s.Snapshot().Loading {
		t.Fatalf("Loading = true, want the listener's write to win")
	}
	if s.Events() != 2 {
		t.Fatalf("Events = %d, want 2", s.Events())
	}
}
