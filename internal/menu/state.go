// Package menu implements the arrow-key driven selection menu every dorc
// screen is built from.
package menu

import "github.com/rileyhilliard/dorc/internal/terminal"

// Outcome is what a key did to the menu.
type Outcome int

const (
	// Moved means the highlight changed (or the key was a no-op); keep reading.
	Moved Outcome = iota
	// Chosen means Enter selected the highlighted item.
	Chosen
	// Cancelled means Escape dismissed the menu.
	Cancelled
)

// State is the navigation state of a menu with Count items.
// Index always stays in [0, Count) and wraps in both directions.
type State struct {
	Index int
	Count int
}

// NewState creates the initial state: first item highlighted.
func NewState(count int) State {
	return State{Index: 0, Count: count}
}

// Apply performs one transition.
func (s *State) Apply(ev terminal.Event) Outcome {
	if s.Count <= 0 {
		return Cancelled
	}

	switch ev.Kind {
	case terminal.KeyUp:
		s.Index = (s.Index - 1 + s.Count) % s.Count
	case terminal.KeyDown, terminal.KeyTab:
		s.Index = (s.Index + 1) % s.Count
	case terminal.KeyEnter:
		return Chosen
	case terminal.KeyEscape:
		return Cancelled
	}
	return Moved
}
