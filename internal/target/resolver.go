package target

import (
	"io"

	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/internal/terminal"
)

// Resolver lets the user pick one target from a candidate list.
type Resolver struct {
	Keys  terminal.KeyReader
	Out   io.Writer
	Title string
	// AutoSelectSingle picks a lone candidate without showing the menu.
	AutoSelectSingle bool
}

// NewResolver creates a resolver with the default title.
func NewResolver(keys terminal.KeyReader, out io.Writer) *Resolver {
	return &Resolver{Keys: keys, Out: out, Title: "Select site"}
}

// Resolve shows candidates and stores the chosen target in store.
// On cancel the previous target is kept and ErrNoTarget is returned.
func (r *Resolver) Resolve(store Store, candidates []Target) (Target, error) {
	if len(candidates) == 0 {
		return Target{}, ErrNoTarget
	}
	if r.AutoSelectSingle && len(candidates) == 1 {
		store.SetTarget(candidates[0])
		return candidates[0], nil
	}

	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = c.Label()
	}

	idx, err := menu.Choose(r.Keys, r.Out, r.Title, labels)
	if err != nil {
		return Target{}, err
	}
	if idx < 0 {
		return Target{}, ErrNoTarget
	}

	store.SetTarget(candidates[idx])
	return candidates[idx], nil
}

// Scoped returns a copy of r with a different title and auto-selection.
func (r *Resolver) Scoped(title string, autoSelect bool) *Resolver {
	c := *r
	c.Title = title
	c.AutoSelectSingle = autoSelect
	return &c
}
