package textsearch

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/whyisdifficult/jiratui/internal/query"
	"github.com/whyisdifficult/jiratui/internal/ui"
)

// ResultMsg is emitted when the user submits or cancels the modal. An
// empty applied term clears the full-text filter.
type ResultMsg struct {
	Applied  bool
	Term     string
	Advanced bool
}

// Model is the full-text search modal. Advanced mode matches every
// text-bearing field including comments and is offered on Jira Cloud
// only.
type Model struct {
	active          bool
	input           textinput.Model
	advanced        bool
	advancedAllowed bool
	hint            string
	width           int
	height          int
}

// New creates the modal pre-filled with the current term and mode.
func New(term string, advanced, advancedAllowed bool) Model {
	input := textinput.New()
	input.Placeholder = "search summaries and descriptions"
	input.CharLimit = 128
	input.Width = 44
	input.SetValue(term)
	input.Focus()

	return Model{
		active:          true,
		input:           input,
		advanced:        advanced && advancedAllowed,
		advancedAllowed: advancedAllowed,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.active = false
		return m, emit(ResultMsg{Applied: false})

	case "ctrl+a":
		if m.advancedAllowed {
			m.advanced = !m.advanced
		}
		return m, nil

	case "enter":
		term := strings.TrimSpace(m.input.Value())
		if term != "" && len([]rune(term)) < query.FullTextFloor {
			m.hint = "the search term needs at least 3 characters"
			return m, nil
		}
		m.active = false
		return m, emit(ResultMsg{Applied: true, Term: term, Advanced: m.advanced})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.hint = ""
	return m, cmd
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render("Full-Text Search")

	mode := "standard (summary + description)"
	if m.advanced {
		mode = "advanced (all text fields)"
	}
	modeLine := ui.StyleMuted.Render("mode: " + mode)

	parts := []string{title, m.input.View(), modeLine}
	if m.hint != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(ui.ColorWarning).Render(m.hint))
	}
	help := "enter: search  esc: cancel"
	if m.advancedAllowed {
		help = "enter: search  ctrl+a: mode  esc: cancel"
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(ui.ColorMuted).MarginTop(1).Render(help))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(56).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			box)
	}
	return box
}

func emit(msg ResultMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
