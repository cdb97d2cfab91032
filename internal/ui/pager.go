package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pagerKeyMap defines key bindings for the pager.
type pagerKeyMap struct {
	Quit key.Binding
}

var pagerKeys = pagerKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "close"),
	),
}

// PagerModel is a Bubble Tea model showing scrollable read-only text.
type PagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

// NewPagerModel creates a pager for content.
func NewPagerModel(title, content string) PagerModel {
	return PagerModel{title: title, content: content}
}

// Init implements tea.Model.
func (m PagerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, pagerKeys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		height := msg.Height - 4
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.viewport.GotoBottom()
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m PagerModel) View() string {
	if !m.ready {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	footerStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ scroll • q/esc close"))
	return b.String()
}

// Page shows content in a full-screen scrollable view until the user closes it.
func Page(title, content string, input io.Reader, output io.Writer) error {
	p := tea.NewProgram(
		NewPagerModel(title, content),
		tea.WithInput(input),
		tea.WithOutput(output),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
