// Package waitlist defines the fixed set of wait-time buckets an operator can
// publish to customers.
package waitlist

import "fmt"

// ID identifies a wait-time bucket. The zero value means no selection.
type ID int

// None is the ID reported when nothing has been selected yet.
const None ID = 0

// Option is a single selectable wait-time bucket.
type Option struct {
	ID    ID
	Label string
	Color string // color hint name, mapped to a palette by the UI
}

var options = [...]Option{
	{ID: 1, Label: "NO WAIT", Color: "green"},
	{ID: 2, Label: "15-30 MIN", Color: "yellow"},
	{ID: 3, Label: "30-45 MIN", Color: "orange"},
	{ID: 4, Label: "1 HOUR", Color: "red"},
}

// All returns the options in display order. Callers get their own copy.
func All() []Option {
	out := make([]Option, len(options))
	copy(out, options[:])
	return out
}

// Lookup returns the option with the given id.
func Lookup(id ID) (Option, bool) {
	for _, opt := range options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Valid reports whether id names a known option.
func (id ID) Valid() bool {
	_, ok := Lookup(id)
	return ok
}

// Label returns the option label, or "—" when id is unknown or None.
func (id ID) Label() string {
	if opt, ok := Lookup(id); ok {
		return opt.Label
	}
	return "—"
}

func (id ID) String() string {
	if id == None {
		return "none"
	}
	return fmt.Sprintf("%d", int(id))
}
