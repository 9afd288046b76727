package details

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/whyisdifficult/jiratui/internal/model"
	"github.com/whyisdifficult/jiratui/internal/ui"
)

// Model is the detail pane for the selected work item. The item arrives
// through its own fetch so the pane can show the description, which
// search pages do not carry.
type Model struct {
	item    *model.WorkItem
	loading bool
	err     error

	viewport viewport.Model
	width    int
	height   int
}

func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

// SetLoading marks the pane as waiting for key's detail fetch.
func (m *Model) SetLoading(key string) {
	m.loading = true
	m.err = nil
	m.item = &model.WorkItem{Key: key}
}

func (m *Model) SetItem(item *model.WorkItem) {
	m.loading = false
	m.err = nil
	m.item = item
	m.viewport.SetContent(m.render())
	m.viewport.GotoTop()
}

func (m *Model) SetError(err error) {
	m.loading = false
	m.err = err
}

func (m *Model) Clear() {
	m.item = nil
	m.loading = false
	m.err = nil
	m.viewport.SetContent("")
}

func (m Model) Item() *model.WorkItem { return m.item }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.viewport.Width = size.Width
		m.viewport.Height = size.Height
		if m.item != nil {
			m.viewport.SetContent(m.render())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  Loading %s...", m.item.Key)
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
	}
	if m.item == nil {
		return ui.StyleMuted.Render("\n  Select a work item to see its details.")
	}
	return m.viewport.View()
}

func (m Model) render() string {
	item := m.item
	label := lipgloss.NewStyle().Width(10).Foreground(ui.ColorMuted)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(item.Key) + "  " + item.Summary + "\n\n")
	b.WriteString(label.Render("Status:") + ui.StatusStyle(item.Status.Name).Render(item.Status.Name) + "\n")
	b.WriteString(label.Render("Type:") + item.Type.Name + "\n")
	assignee := "unassigned"
	if item.Assignee != nil {
		assignee = item.Assignee.DisplayName
		if item.Assignee.Email != "" {
			assignee += " <" + item.Assignee.Email + ">"
		}
	}
	b.WriteString(label.Render("Assignee:") + assignee + "\n")
	if !item.Created.IsZero() {
		b.WriteString(label.Render("Created:") + item.Created.Format("2006-01-02 15:04") + "\n")
	}
	if item.Description != "" {
		b.WriteString("\n" + wrap(item.Description, m.width-2))
	}
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
