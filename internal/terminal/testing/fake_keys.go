// Package testing provides test doubles for the terminal package.
package testing

import (
	"io"

	"github.com/rileyhilliard/dorc/internal/terminal"
)

// FakeKeys replays a fixed list of key events. Once exhausted it returns
// io.EOF so a test that reads too far fails instead of hanging.
type FakeKeys struct {
	events []terminal.Event
	errs   map[int]error

	// Reads counts ReadKey calls, including the one that returned io.EOF.
	Reads int
}

// NewFakeKeys creates a reader that yields events in order.
func NewFakeKeys(events ...terminal.Event) *FakeKeys {
	return &FakeKeys{events: events, errs: map[int]error{}}
}

// Keys builds events from kinds, for compact test setup.
func Keys(kinds ...terminal.Kind) []terminal.Event {
	events := make([]terminal.Event, len(kinds))
	for i, k := range kinds {
		events[i] = terminal.Event{Kind: k}
	}
	return events
}

// Push appends events.
func (f *FakeKeys) Push(events ...terminal.Event) *FakeKeys {
	f.events = append(f.events, events...)
	return f
}

// PushKinds appends events built from kinds.
func (f *FakeKeys) PushKinds(kinds ...terminal.Kind) *FakeKeys {
	return f.Push(Keys(kinds...)...)
}

// FailAt makes the n-th read (0-based) return err instead of an event.
func (f *FakeKeys) FailAt(n int, err error) *FakeKeys {
	f.errs[n] = err
	return f
}

// Remaining returns the number of unread events.
func (f *FakeKeys) Remaining() int {
	return len(f.events)
}

// ReadKey implements terminal.KeyReader.
func (f *FakeKeys) ReadKey() (terminal.Event, error) {
	n := f.Reads
	f.Reads++
	if err, ok := f.errs[n]; ok {
		return terminal.Event{}, err
	}
	if len(f.events) == 0 {
		return terminal.Event{}, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}
