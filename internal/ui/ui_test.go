package ui

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dorcerrors "github.com/rileyhilliard/dorc/internal/errors"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

func TestSymbolsAreUnique(t *testing.T) {
	symbols := []string{
		SymbolSuccess,
		SymbolFail,
		SymbolPending,
		SymbolProgress,
		SymbolComplete,
		SymbolSkipped,
		SymbolCursor,
		SymbolWarning,
	}

	seen := make(map[string]bool)
	for _, s := range symbols {
		assert.False(t, seen[s], "symbols should be unique, found duplicate: %s", s)
		seen[s] = true
	}
}

func TestSemanticColorsAreUnique(t *testing.T) {
	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{ColorSuccess, ColorError, ColorWarning, ColorInfo} {
		assert.False(t, seen[c], "duplicate semantic color %s", c)
		seen[c] = true
	}
}

func TestPrinter(t *testing.T) {
	tests := []struct {
		name   string
		print  func(p *Printer)
		symbol string
	}{
		{"success", func(p *Printer) { p.Success("Restored", "site_a") }, SymbolSuccess},
		{"error", func(p *Printer) { p.Error("Restore failed", "exit 1") }, SymbolFail},
		{"warning", func(p *Printer) { p.Warning("Cache rebuild failed", "exit 1") }, SymbolWarning},
		{"info", func(p *Printer) { p.Info("Target", "@site_a") }, SymbolComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(NewPrinter(&buf))
			out := buf.String()
			assert.Contains(t, out, tt.symbol)
			assert.Contains(t, out, "\n  ")
		})
	}
}

func TestPrinter_SkipsEmptyDetails(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Success("Done", "", "")
	assert.Equal(t, SymbolSuccess+" Done\n", buf.String())
}

func TestPrinter_Err(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Err(dorcerrors.New(dorcerrors.ErrTarget, "No site selected", "Pick a site first"))
	out := buf.String()
	assert.Contains(t, out, "✗ No site selected")
	assert.Contains(t, out, "Pick a site first")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(SymbolFail)))

	buf.Reset()
	p.Err(errors.New("plain failure"))
	assert.Equal(t, SymbolFail+" plain failure\n", buf.String())

	buf.Reset()
	p.Err(nil)
	assert.Empty(t, buf.String())
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Plain("%d pods", 3)
	p.Plain("done\n")
	assert.Equal(t, "3 pods\ndone\n", buf.String())
}

func TestNotEmpty(t *testing.T) {
	validate := NotEmpty("Branch")
	assert.NoError(t, validate("main"))
	err := validate("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Branch")
}

func TestMapFormErr(t *testing.T) {
	other := errors.New("boom")
	assert.Equal(t, other, mapFormErr(other))
}

func TestPagerModel(t *testing.T) {
	m := NewPagerModel("History", "line one\nline two")
	assert.Empty(t, m.View())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := updated.View()
	assert.Contains(t, view, "History")
	assert.Contains(t, view, "line two")

	_, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
