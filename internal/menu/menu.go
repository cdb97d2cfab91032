package menu

import (
	"errors"
	"io"

	"github.com/rileyhilliard/dorc/internal/terminal"
)

// ErrBack is returned by an item handler to close the menu it was chosen from.
var ErrBack = errors.New("back")

// ErrQuit is returned by an item handler to unwind every menu and exit.
var ErrQuit = errors.New("quit")

// Item is one menu entry. Order within a menu is display order.
type Item struct {
	Label string
	Run   func() error
}

// Result is the outcome of a selection. Item is nil when Cancelled.
type Result struct {
	Item      *Item
	Index     int
	Cancelled bool
}

// Select shows items and blocks until the user presses Enter or Escape.
// An empty list returns a cancelled result without reading any key.
func Select(keys terminal.KeyReader, w io.Writer, title string, items []Item) (Result, error) {
	if len(items) == 0 {
		return Result{Cancelled: true}, nil
	}

	state := NewState(len(items))
	Render(w, title, items, state.Index)

	for {
		ev, err := keys.ReadKey()
		if err != nil {
			if errors.Is(err, terminal.ErrInterrupted) {
				return Result{Cancelled: true}, nil
			}
			return Result{}, err
		}

		switch state.Apply(ev) {
		case Chosen:
			return Result{Item: &items[state.Index], Index: state.Index}, nil
		case Cancelled:
			return Result{Cancelled: true}, nil
		}
		Render(w, title, items, state.Index)
	}
}

// Choose is Select over plain labels. It returns the chosen index, or -1
// when the user cancelled.
func Choose(keys terminal.KeyReader, w io.Writer, title string, labels []string) (int, error) {
	items := make([]Item, len(labels))
	for i, l := range labels {
		items[i] = Item{Label: l}
	}
	res, err := Select(keys, w, title, items)
	if err != nil || res.Cancelled {
		return -1, err
	}
	return res.Index, nil
}

// Loop shows the menu repeatedly, running the chosen item's handler each
// time. It returns nil when the user cancels or a handler returns ErrBack,
// and ErrQuit when a handler asks to quit. Other handler errors go to
// onError and the menu is shown again.
func Loop(keys terminal.KeyReader, w io.Writer, title func() string, items func() []Item, onError func(error)) error {
	for {
		res, err := Select(keys, w, title(), items())
		if err != nil {
			return err
		}
		if res.Cancelled {
			return nil
		}
		if res.Item.Run == nil {
			continue
		}

		err = res.Item.Run()
		switch {
		case err == nil:
		case errors.Is(err, ErrBack):
			return nil
		case errors.Is(err, ErrQuit):
			return ErrQuit
		default:
			if onError != nil {
				onError(err)
			}
		}
	}
}
