package terminal

import (
	"os"

	"github.com/rileyhilliard/dorc/internal/errors"
	"golang.org/x/term"
)

// Reader reads keypresses from a terminal, switching it to raw mode only
// for the duration of each read.
type Reader struct {
	fd      int
	scanner *Scanner

	// Swappable for tests.
	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error
}

// NewReader creates a reader for the given terminal (usually os.Stdin).
func NewReader(in *os.File) *Reader {
	return &Reader{
		fd:      int(in.Fd()),
		scanner: NewScanner(newFileSource(in)),
		makeRaw: term.MakeRaw,
		restore: term.Restore,
	}
}

// IsTerminal reports whether the reader is attached to a terminal.
func (r *Reader) IsTerminal() bool {
	return term.IsTerminal(r.fd)
}

// ReadKey implements KeyReader. The prior terminal mode is restored on
// every return path, including Ctrl-C, read errors and panics.
func (r *Reader) ReadKey() (ev Event, err error) {
	var prior *term.State
	defer func() {
		if prior == nil {
			return
		}
		if rerr := r.restore(r.fd, prior); rerr != nil && err == nil {
			err = errors.WrapWithCode(rerr, errors.ErrInput,
				"Couldn't restore the terminal",
				"Run 'reset' if the terminal looks garbled")
		}
	}()

	prior, err = r.makeRaw(r.fd)
	if err != nil {
		prior = nil
		return Event{}, errors.WrapWithCode(err, errors.ErrInput,
			"Couldn't switch the terminal to raw mode",
			"dorc needs an interactive terminal; don't pipe its input")
	}

	return r.scanner.ReadKey()
}
