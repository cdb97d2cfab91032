package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestPhaseDisplay(buf *bytes.Buffer, step time.Duration) *PhaseDisplay {
	pd := NewPhaseDisplay(buf)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pd.now = func() time.Time {
		t := clock
		clock = clock.Add(step)
		return t
	}
	return pd
}

func TestPhaseDisplay_StartDone(t *testing.T) {
	var buf bytes.Buffer
	pd := newTestPhaseDisplay(&buf, 300*time.Millisecond)

	pd.Start("Decompressing site_a.sql.gz")
	pd.Done()

	out := buf.String()
	assert.Contains(t, out, SymbolProgress+" Decompressing site_a.sql.gz...")
	assert.Contains(t, out, SymbolComplete)
	assert.Contains(t, out, "0.3s")
}

func TestPhaseDisplay_Fail(t *testing.T) {
	var buf bytes.Buffer
	pd := newTestPhaseDisplay(&buf, 2300*time.Millisecond)

	pd.Start("Dropping tables")
	pd.Fail()

	out := buf.String()
	assert.Contains(t, out, SymbolFail)
	assert.Contains(t, out, "2.3s")
}

func TestPhaseDisplay_Warn(t *testing.T) {
	var buf bytes.Buffer
	pd := newTestPhaseDisplay(&buf, time.Second)

	pd.Start("Rebuilding caches")
	pd.Warn("exit 1")

	assert.Contains(t, buf.String(), "(exit 1)")
}

func TestPhaseDisplay_FinishWithoutStartIsNoop(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.Done()
	pd.Fail()

	assert.Empty(t, buf.String())
}

func TestPhaseDisplay_Skip(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.Skip("Decompressing", "plain SQL")
	assert.Contains(t, buf.String(), SymbolSkipped+" Decompressing")
	assert.Contains(t, buf.String(), "(plain SQL)")

	buf.Reset()
	pd.Skip("Decompressing", "")
	assert.NotContains(t, buf.String(), "(")
}

func TestPhaseDisplay_CommandPrompt(t *testing.T) {
	var buf bytes.Buffer
	pd := NewPhaseDisplay(&buf)

	pd.CommandPrompt("drush @site_a sql:drop -y")
	assert.Contains(t, buf.String(), "$ drush @site_a sql:drop -y")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0s"},
		{400 * time.Millisecond, "0.4s"},
		{12 * time.Second, "12.0s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
