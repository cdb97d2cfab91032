// Package terminal reads single logical keypresses from a raw-mode terminal.
//
// Decoding is split in two: a Scanner turns bytes into key events with an
// explicit escape-sequence state machine, and a ByteSource supplies bytes with
// a per-read timeout. The Reader couples a scanner to the process terminal and
// owns the raw-mode lifecycle.
package terminal

import (
	"errors"
	"fmt"
)

// Kind identifies a decoded keypress.
type Kind int

const (
	KeyChar Kind = iota
	KeyEnter
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	// KeyOther is a recognized but unsupported sequence (Home, F1, ...).
	KeyOther
)

// String returns a human-readable key name.
func (k Kind) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyEnter:
		return "enter"
	case KeyTab:
		return "tab"
	case KeyEscape:
		return "esc"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyOther:
		return "other"
	default:
		return "unknown"
	}
}

// Event is one logical keypress. Rune is set only for KeyChar.
type Event struct {
	Kind Kind
	Rune rune
}

func (e Event) String() string {
	if e.Kind == KeyChar {
		return fmt.Sprintf("char(%q)", e.Rune)
	}
	return e.Kind.String()
}

// Char builds a KeyChar event.
func Char(r rune) Event {
	return Event{Kind: KeyChar, Rune: r}
}

// ErrInterrupted is returned when the user presses Ctrl-C in raw mode,
// where the terminal no longer turns it into SIGINT.
var ErrInterrupted = errors.New("interrupted")

// KeyReader reads one logical keypress.
type KeyReader interface {
	ReadKey() (Event, error)
}
