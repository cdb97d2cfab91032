package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 64

// PhaseDisplay renders the steps of a multi-stage operation such as a
// database restore, one line per step.
type PhaseDisplay struct {
	w       io.Writer
	current string
	started time.Time
	now     func() time.Time
}

// NewPhaseDisplay creates a new phase display writing to w.
func NewPhaseDisplay(w io.Writer) *PhaseDisplay {
	return &PhaseDisplay{w: w, now: time.Now}
}

// Start renders a step in progress and starts its timer.
// Shows: ◐ Decompressing site_a.sql.gz...
func (pd *PhaseDisplay) Start(name string) {
	pd.current = name
	pd.started = pd.now()
	style := lipgloss.NewStyle().Foreground(ColorSecondary)
	fmt.Fprintf(pd.w, "%s %s...\n", style.Render(SymbolProgress), name)
}

// Done renders the current step as completed.
// Shows: ● Decompressing site_a.sql.gz 0.3s
func (pd *PhaseDisplay) Done() {
	pd.finish(ColorSuccess, SymbolComplete, "")
}

// Fail renders the current step as failed.
// Shows: ✗ Dropping tables 2.3s
func (pd *PhaseDisplay) Fail() {
	pd.finish(ColorError, SymbolFail, "")
}

// Warn renders the current step as finished with a non-fatal problem.
func (pd *PhaseDisplay) Warn(reason string) {
	pd.finish(ColorWarning, SymbolWarning, reason)
}

// Skip renders a step that did not run.
// Shows: ⊘ Decompressing (already plain SQL)
func (pd *PhaseDisplay) Skip(name, reason string) {
	fmt.Fprintln(pd.w, FormatPhase(SymbolSkipped, ColorWarning, name, parenthesize(reason)))
}

// CommandPrompt renders the command about to be executed.
// Shows: $ drush @site_a sql:drop -y
func (pd *PhaseDisplay) CommandPrompt(cmd string) {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(pd.w, "%s %s\n", style.Render("$"), cmd)
}

// Divider renders a horizontal line to separate steps from command output.
func (pd *PhaseDisplay) Divider() {
	fmt.Fprintf(pd.w, "\n%s\n\n", FormatDivider(DividerWidth))
}

func (pd *PhaseDisplay) finish(color lipgloss.Color, symbol, reason string) {
	if pd.current == "" {
		return
	}
	timing := formatDuration(pd.now().Sub(pd.started))
	if reason != "" {
		timing = parenthesize(reason) + " " + timing
	}
	fmt.Fprintln(pd.w, FormatPhase(symbol, color, pd.current, timing))
	pd.current = ""
}

// FormatPhase returns a formatted phase line as a string.
func FormatPhase(symbol string, symbolColor lipgloss.Color, name string, timing string) string {
	symbolStyle := lipgloss.NewStyle().Foreground(symbolColor)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	if timing == "" {
		return fmt.Sprintf("%s %s", symbolStyle.Render(symbol), name)
	}
	return fmt.Sprintf("%s %s %s", symbolStyle.Render(symbol), name, timingStyle.Render(timing))
}

// FormatDivider returns a divider line as a string.
func FormatDivider(width int) string {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	return style.Render(strings.Repeat("━", width))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

func parenthesize(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}
