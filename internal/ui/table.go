package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Nothing is focused, so the selected row must look like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	return NewTable(columns, tableRows).View()
}

// ToolCheckRow is one line of the doctor tool report.
type ToolCheckRow struct {
	Status     string // "pass", "warn", "fail"
	Tool       string
	Version    string // Detected version, empty when not found
	Required   string // Version constraint, empty when any version is fine
	Suggestion string // Shown under failing rows
}

// RenderToolTable renders doctor tool checks as a formatted table followed by
// suggestions for every row that did not pass.
func RenderToolTable(rows []ToolCheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	columns := []TableColumn{
		{Title: " ", Width: 2},
		{Title: "TOOL", Width: 12},
		{Title: "VERSION", Width: 14},
		{Title: "REQUIRED", Width: 12},
	}

	tableRows := make([][]string, len(rows))
	for i, row := range rows {
		version := row.Version
		if version == "" {
			version = "not found"
		}
		required := row.Required
		if required == "" {
			required = "any"
		}
		tableRows[i] = []string{statusSymbol(row.Status), row.Tool, version, required}
	}

	var b strings.Builder
	b.WriteString(RenderSimpleTable(columns, tableRows))
	b.WriteString("\n")

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	for _, row := range rows {
		if row.Status == "pass" || row.Suggestion == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(FormatPhase(statusSymbol(row.Status), statusColor(row.Status), row.Tool, ""))
		b.WriteString("\n  ")
		b.WriteString(mutedStyle.Render(row.Suggestion))
	}
	return b.String()
}

// Plain symbols: the table measures cell width and would truncate ANSI codes.
func statusSymbol(status string) string {
	switch status {
	case "pass":
		return SymbolSuccess
	case "warn":
		return SymbolWarning
	case "fail":
		return SymbolFail
	default:
		return SymbolPending
	}
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case "pass":
		return ColorSuccess
	case "warn":
		return ColorWarning
	case "fail":
		return ColorError
	default:
		return ColorMuted
	}
}
