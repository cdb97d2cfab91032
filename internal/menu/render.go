package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/dorc/internal/ui"
)

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

var (
	titleStyle    = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(ui.ColorSecondary).Bold(true)
	itemStyle     = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	hintStyle     = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

// Render redraws the whole menu with the item at index highlighted.
func Render(w io.Writer, title string, items []Item, index int) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, item := range items {
		if i == index {
			b.WriteString(selectedStyle.Render(ui.SymbolCursor + " " + item.Label))
		} else {
			b.WriteString(itemStyle.Render("  " + item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ move • tab next • enter select • esc back"))
	b.WriteString("\n")

	fmt.Fprint(w, b.String())
}
