package results

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/whyisdifficult/jiratui/internal/engine"
	"github.com/whyisdifficult/jiratui/internal/model"
	"github.com/whyisdifficult/jiratui/internal/ui"
)

// NeedNextPageMsg is emitted when the cursor is at the bottom and the
// user presses down.
type NeedNextPageMsg struct{}

// --- Custom delegate ---

type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wi, ok := item.(workItem)
	if !ok {
		return
	}

	key := lipgloss.NewStyle().Bold(true).Render(wi.item.Key)
	status := ui.StatusStyle(wi.item.Status.Name).Render(wi.item.Status.Name)
	kind := ui.StyleMuted.Render(wi.item.Type.Name)
	assignee := ui.StyleMuted.Render("unassigned")
	if wi.item.Assignee != nil {
		assignee = ui.StyleInfo.Render(wi.item.Assignee.DisplayName)
	}
	ago := ui.StyleMuted.Render(formatAge(wi.item.Created))

	line1 := fmt.Sprintf(" %s  %s  %s  %s  %s", key, status, kind, assignee, ago)
	line2 := fmt.Sprintf("    %s", wi.item.Summary)

	if index == m.Index() {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// --- Item ---

type workItem struct {
	item model.WorkItem
}

func (i workItem) FilterValue() string { return i.item.Summary }

func formatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	if d < time.Hour {
		return "<1h"
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// --- Model ---

// Model renders the current search page. The 'f' filter narrows the
// already-fetched page locally; it never re-queries the remote source
// and is dropped whenever a new page arrives.
type Model struct {
	list   list.Model
	page   []model.WorkItem
	filter engine.PageFilter

	filterEnabled bool
	filterInput   textinput.Model
	filtering     bool // input focused
	term          string

	width   int
	height  int
	loading bool
	err     error
}

func New(filter engine.PageFilter, filterEnabled bool) Model {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Page-level filtering is the engine's, not the list's fuzzy one.
	l.SetFilteringEnabled(false)
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up"))
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "filter this page"
	input.CharLimit = 64
	input.Width = 30
	input.Prompt = "/ "

	return Model{
		list:          l,
		filter:        filter,
		filterEnabled: filterEnabled,
		filterInput:   input,
		loading:       true,
	}
}

// SetPage replaces the rendered page and drops any local filter term.
func (m *Model) SetPage(items []model.WorkItem) tea.Cmd {
	m.loading = false
	m.err = nil
	m.page = items
	m.clearFilter()
	cmd := m.setListItems(items)
	m.list.Select(0)
	return cmd
}

func (m *Model) SetError(err error) {
	m.loading = false
	m.err = err
}

// Focus moves the cursor to the given row of the unfiltered page.
func (m *Model) Focus(index int) {
	m.list.Select(index)
}

func (m Model) SelectedItem() *model.WorkItem {
	if item, ok := m.list.SelectedItem().(workItem); ok {
		return &item.item
	}
	return nil
}

// VisibleCount is the number of rows after the local filter.
func (m Model) VisibleCount() int {
	return len(m.list.Items())
}

func (m Model) IsFiltering() bool { return m.filtering }

// FilterTerm is the active local filter term, empty when off.
func (m Model) FilterTerm() string { return m.term }

// ClearFilter drops the local filter term and restores the full page.
// Called when the results pane loses focus; a narrowed view must not
// outlive the table it narrows.
func (m *Model) ClearFilter() tea.Cmd {
	if !m.filtering && m.term == "" {
		return nil
	}
	m.clearFilter()
	return m.setListItems(m.page)
}

func (m *Model) clearFilter() {
	m.filtering = false
	m.term = ""
	m.filterInput.SetValue("")
	m.filterInput.Blur()
}

func (m *Model) setListItems(items []model.WorkItem) tea.Cmd {
	rows := make([]list.Item, len(items))
	for i, it := range items {
		rows[i] = workItem{item: it}
	}
	return m.list.SetItems(rows)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "esc":
				m.clearFilter()
				return m, m.setListItems(m.page)
			case "enter":
				m.filtering = false
				m.filterInput.Blur()
				return m, nil
			default:
				var cmd tea.Cmd
				m.filterInput, cmd = m.filterInput.Update(msg)
				m.term = m.filterInput.Value()
				setCmd := m.setListItems(m.filter.Apply(m.term, m.page))
				return m, tea.Batch(cmd, setCmd)
			}
		}

		switch {
		case key.Matches(msg, ui.Keys.PageFilter):
			if !m.filterEnabled || len(m.page) == 0 {
				return m, nil
			}
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink
		case msg.String() == "esc" && m.term != "":
			m.clearFilter()
			return m, m.setListItems(m.page)
		}

		isDown := msg.String() == "j" || msg.Type == tea.KeyDown
		if isDown && len(m.list.Items()) > 0 && m.list.Index() >= len(m.list.Items())-1 {
			return m, func() tea.Msg { return NeedNextPageMsg{} }
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Searching..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
	}
	header := ""
	if m.filtering || m.term != "" {
		suffix := ""
		if m.term != "" && !m.filter.Active(m.term) {
			suffix = ui.StyleMuted.Render("  (type more to filter)")
		}
		header = " " + m.filterInput.View() + suffix
	}
	if len(m.page) == 0 {
		return header + "\n  No work items found."
	}
	if header != "" {
		return header + "\n" + m.list.View()
	}
	return m.list.View()
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Enter,
		ui.Keys.Filters,
		ui.Keys.TextSearch,
		ui.Keys.PageFilter,
		ui.Keys.NextPage,
	}
}
