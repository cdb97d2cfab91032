package target

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dorc/internal/terminal"
	termtest "github.com/rileyhilliard/dorc/internal/terminal/testing"
)

type memStore struct {
	t   Target
	set bool
}

func (m *memStore) Target() (Target, bool) { return m.t, m.set }
func (m *memStore) SetTarget(t Target)     { m.t, m.set = t, true }
func (m *memStore) ClearTarget()           { m.t, m.set = Target{}, false }

func candidates() []Target {
	return []Target{Alias("sitea"), Alias("siteb"), AllSites()}
}

func TestResolver_SelectStoresTarget(t *testing.T) {
	keys := termtest.NewFakeKeys(termtest.Keys(terminal.KeyDown, terminal.KeyEnter)...)
	store := &memStore{}

	got, err := NewResolver(keys, io.Discard).Resolve(store, candidates())

	require.NoError(t, err)
	assert.Equal(t, Alias("siteb"), got)
	current, ok := store.Target()
	assert.True(t, ok)
	assert.Equal(t, Alias("siteb"), current)
}

func TestResolver_CancelKeepsPriorTarget(t *testing.T) {
	keys := termtest.NewFakeKeys(termtest.Keys(terminal.KeyDown, terminal.KeyEscape)...)
	store := &memStore{}
	store.SetTarget(Alias("sitea"))

	_, err := NewResolver(keys, io.Discard).Resolve(store, candidates())

	assert.ErrorIs(t, err, ErrNoTarget)
	current, _ := store.Target()
	assert.Equal(t, Alias("sitea"), current)
}

func TestResolver_AutoSelectSingle(t *testing.T) {
	keys := termtest.NewFakeKeys()
	store := &memStore{}

	got, err := NewResolver(keys, io.Discard).Scoped("Restore into", true).Resolve(store, []Target{Alias("sitea")})

	require.NoError(t, err)
	assert.Equal(t, Alias("sitea"), got)
	assert.Equal(t, 0, keys.Reads)
}

func TestResolver_SingleWithoutAutoSelectStillAsks(t *testing.T) {
	keys := termtest.NewFakeKeys(termtest.Keys(terminal.KeyEnter)...)

	_, err := NewResolver(keys, io.Discard).Resolve(&memStore{}, []Target{Alias("sitea")})

	require.NoError(t, err)
	assert.Equal(t, 1, keys.Reads)
}

func TestResolver_NoCandidates(t *testing.T) {
	keys := termtest.NewFakeKeys()
	_, err := NewResolver(keys, io.Discard).Resolve(&memStore{}, nil)
	assert.ErrorIs(t, err, ErrNoTarget)
	assert.Equal(t, 0, keys.Reads)
}
