package cli

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/dorc/internal/history"
	"github.com/rileyhilliard/dorc/internal/menu"
)

// replayLimit caps the replay picker to the most recent entries.
const replayLimit = 50

func (a *App) historyScreen() error {
	return a.submenu("History", func() []menu.Item {
		return []menu.Item{
			{Label: "View", Run: a.viewHistory},
			{Label: "Replay", Run: a.replayHistory},
			{Label: "Clear", Run: a.clearHistory},
		}
	})
}

func (a *App) recentHistory() ([]history.Entry, error) {
	entries, err := a.History.List()
	if err != nil {
		return nil, err
	}
	// newest first
	out := make([]history.Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0 && len(out) < replayLimit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (a *App) viewHistory() error {
	entries, err := a.History.List()
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  [%s]  %s\n    $ %s\n", e.Time.Format(history.TimeLayout), e.Context, e.Description, e.Command)
	}
	if b.Len() == 0 {
		b.WriteString("No commands recorded yet.\n")
	}
	return a.Page("History", b.String())
}

func (a *App) replayHistory() error {
	entries, err := a.recentHistory()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.Print.Info("History is empty", "Commands you run from the menus are recorded here.")
		a.pause()
		return nil
	}
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label()
	}
	idx, err := a.choose("Replay", labels)
	if err != nil || idx < 0 {
		return err
	}

	e := entries[idx]
	fmt.Fprintln(a.Out)
	if err := a.History.Replay(e, a.Runner); err != nil {
		return err
	}
	a.record(e.Description, e.Command)
	a.Print.Success("Replayed " + e.Description)
	a.pause()
	return nil
}

func (a *App) clearHistory() error {
	ok, err := a.confirm("Clear all history?", "Recorded commands can't be replayed afterwards.")
	if err != nil || !ok {
		return err
	}
	if err := a.History.Clear(); err != nil {
		return err
	}
	a.Print.Success("History cleared")
	a.pause()
	return nil
}
