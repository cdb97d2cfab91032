package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled one-off status lines between menu screens.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Success prints: ✓ title, followed by indented details.
func (p *Printer) Success(title string, details ...string) {
	p.line(ColorSuccess, SymbolSuccess, title, details)
}

// Error prints: ✗ title, followed by indented details.
func (p *Printer) Error(title string, details ...string) {
	p.line(ColorError, SymbolFail, title, details)
}

// Warning prints: ! title, followed by indented details.
func (p *Printer) Warning(title string, details ...string) {
	p.line(ColorWarning, SymbolWarning, title, details)
}

// Info prints: ● title, followed by indented details.
func (p *Printer) Info(title string, details ...string) {
	p.line(ColorInfo, SymbolComplete, title, details)
}

// Err prints an error value. Structured errors already carry their own
// ✗ prefix, so they are printed as-is in the error color.
func (p *Printer) Err(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if strings.HasPrefix(msg, SymbolFail) {
		fmt.Fprintln(p.w, lipgloss.NewStyle().Foreground(ColorError).Render(strings.TrimRight(msg, "\n")))
		return
	}
	p.Error(msg)
}

// Plain prints text without styling.
func (p *Printer) Plain(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
	if !strings.HasSuffix(format, "\n") {
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) line(color lipgloss.Color, symbol, title string, details []string) {
	symbolStyle := lipgloss.NewStyle().Foreground(color)
	detailStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	fmt.Fprintf(p.w, "%s %s\n", symbolStyle.Render(symbol), title)
	for _, d := range details {
		if d == "" {
			continue
		}
		fmt.Fprintf(p.w, "  %s\n", detailStyle.Render(d))
	}
}
