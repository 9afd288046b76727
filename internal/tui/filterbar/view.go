package filterbar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/whyisdifficult/jiratui/internal/fetch"
	"github.com/whyisdifficult/jiratui/internal/model"
	"github.com/whyisdifficult/jiratui/internal/ui"
)

const dateLayout = "2006-01-02"

// Result holds the filter values selected by the user.
type Result struct {
	ProjectKey   string
	IssueTypeID  string
	StatusID     string
	AssigneeID   string
	ActiveSprint bool
	CreatedFrom  time.Time
	CreatedUntil time.Time
	WorkItemKey  string
	JQL          string
	ExpressionID int
	Sort         model.SortOrder
}

// ResultMsg is emitted when the user applies or cancels the overlay.
type ResultMsg struct {
	Applied bool
	Result  Result
}

// ProjectChangedMsg fires while the overlay is still open, so the
// dependent dropdowns refetch against the newly selected project and
// their fresh options land back in the open form.
type ProjectChangedMsg struct {
	Key string // empty = cleared
}

// Expression is one configured pre-defined JQL query.
type Expression struct {
	ID    int
	Label string
}

type field int

const (
	fieldProject field = iota
	fieldIssueType
	fieldStatus
	fieldAssignee
	fieldSprint
	fieldCreatedFrom
	fieldCreatedUntil
	fieldKey
	fieldJQL
	fieldExpression
	fieldSort
	fieldCount
)

// Model is the Bubble Tea model for the search filter overlay. Dropdown
// contents track the live option sets: project changes refetch them
// while the overlay stays open.
type Model struct {
	active  bool
	focused field

	projects   model.OptionSet
	issueTypes model.OptionSet
	statuses   model.OptionSet
	users      model.OptionSet

	// initialProject is the project the overlay opened with. Cycling
	// the project field refetches immediately; cancelling must undo
	// that, so the opening value is kept for the esc path.
	initialProject string

	projectIdx   int // -1 = all
	issueTypeIdx int
	statusIdx    int
	assigneeIdx  int

	sprint bool

	createdFrom  textinput.Model
	createdUntil textinput.Model
	itemKey      textinput.Model
	jql          textinput.Model

	expressions   []Expression
	expressionIdx int // -1 = none

	sorts   []model.SortOrder
	sortIdx int

	dateErr string
	width   int
	height  int
}

func newInput(placeholder string, width int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 128
	input.Width = width
	return input
}

// New creates the overlay pre-populated with the current filter state
// and the live option sets. The overlay starts active.
func New(current model.FilterState, options map[fetch.Kind]model.OptionSet, expressions map[int]string) Model {
	createdFrom := newInput("YYYY-MM-DD", 12)
	if !current.CreatedFrom.IsZero() {
		createdFrom.SetValue(current.CreatedFrom.Format(dateLayout))
	}
	createdUntil := newInput("YYYY-MM-DD", 12)
	if !current.CreatedUntil.IsZero() {
		createdUntil.SetValue(current.CreatedUntil.Format(dateLayout))
	}
	itemKey := newInput("e.g. SCRUM-42", 20)
	itemKey.SetValue(current.WorkItemKey)
	jql := newInput("raw JQL, overrides the fields above", 44)
	jql.SetValue(current.JQL)

	m := Model{
		active:         true,
		initialProject: current.ProjectKey,
		projects:       options[fetch.KindProjects],
		issueTypes:     options[fetch.KindIssueTypes],
		statuses:       options[fetch.KindStatuses],
		users:          options[fetch.KindUsers],
		projectIdx:     -1,
		issueTypeIdx:   -1,
		statusIdx:      -1,
		assigneeIdx:    -1,
		sprint:         current.ActiveSprint,
		createdFrom:    createdFrom,
		createdUntil:   createdUntil,
		itemKey:        itemKey,
		jql:            jql,
		expressionIdx:  -1,
		sorts:          model.SortOrders(),
	}

	for id, label := range expressions {
		m.expressions = append(m.expressions, Expression{ID: id, Label: label})
	}
	sort.Slice(m.expressions, func(i, j int) bool { return m.expressions[i].ID < m.expressions[j].ID })

	m.projectIdx = indexOf(m.projects, current.ProjectKey)
	m.issueTypeIdx = indexOf(m.issueTypes, current.IssueTypeID)
	m.statusIdx = indexOf(m.statuses, current.StatusID)
	m.assigneeIdx = indexOf(m.users, current.AssigneeID)

	for i, s := range m.sorts {
		if s == current.Sort {
			m.sortIdx = i
			break
		}
	}
	return m
}

func indexOf(set model.OptionSet, id string) int {
	if id == "" {
		return -1
	}
	for i, o := range set.Options {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// IsActive reports whether the overlay is currently visible.
func (m Model) IsActive() bool { return m.active }

// SetSize stores terminal dimensions so the overlay can centre itself.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetOptions installs a freshly committed option set while the overlay
// is open. The current index is re-resolved by id; a selection that
// vanished from the new set falls back to "all".
func (m *Model) SetOptions(kind fetch.Kind, set model.OptionSet) {
	switch kind {
	case fetch.KindProjects:
		m.projectIdx = reindex(m.projects, set, m.projectIdx)
		m.projects = set
	case fetch.KindIssueTypes:
		m.issueTypeIdx = reindex(m.issueTypes, set, m.issueTypeIdx)
		m.issueTypes = set
	case fetch.KindStatuses:
		m.statusIdx = reindex(m.statuses, set, m.statusIdx)
		m.statuses = set
	case fetch.KindUsers:
		m.assigneeIdx = reindex(m.users, set, m.assigneeIdx)
		m.users = set
	}
}

func reindex(old, next model.OptionSet, idx int) int {
	if idx < 0 || idx >= len(old.Options) {
		return -1
	}
	return indexOf(next, old.Options[idx].ID)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.isTextFieldFocused() {
		switch keyMsg.String() {
		case "esc":
			m.active = false
			return m, tea.Batch(m.restoreProject(), emitResult(false, Result{}))
		case "up":
			m.blurTextInputs()
			m.moveFocus(-1)
			return m, nil
		case "down":
			m.blurTextInputs()
			m.moveFocus(1)
			return m, nil
		case "tab":
			m.blurTextInputs()
			m.moveFocus(1)
			m.focusCurrentTextInput()
			return m, nil
		case "shift+tab":
			m.blurTextInputs()
			m.moveFocus(-1)
			m.focusCurrentTextInput()
			return m, nil
		case "enter":
			m.blurTextInputs()
			return m, nil
		default:
			var cmd tea.Cmd
			switch m.focused {
			case fieldCreatedFrom:
				m.createdFrom, cmd = m.createdFrom.Update(msg)
			case fieldCreatedUntil:
				m.createdUntil, cmd = m.createdUntil.Update(msg)
			case fieldKey:
				m.itemKey, cmd = m.itemKey.Update(msg)
			case fieldJQL:
				m.jql, cmd = m.jql.Update(msg)
			}
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "j", "down":
		m.moveFocus(1)
		return m, nil
	case "k", "up":
		m.moveFocus(-1)
		return m, nil

	case "enter", "right", "l":
		return m.cycle(1)
	case "left", "h":
		return m.cycle(-1)

	case "a":
		result, ok := m.buildResult()
		if !ok {
			return m, nil
		}
		m.active = false
		return m, emitResult(true, result)

	case "c":
		cleared := m.projectIdx >= 0
		m.projectIdx = -1
		m.issueTypeIdx = -1
		m.statusIdx = -1
		m.assigneeIdx = -1
		m.sprint = false
		m.expressionIdx = -1
		m.createdFrom.SetValue("")
		m.createdUntil.SetValue("")
		m.itemKey.SetValue("")
		m.jql.SetValue("")
		m.dateErr = ""
		if cleared {
			return m, emitProjectChanged("")
		}
		return m, nil

	case "esc":
		m.active = false
		return m, tea.Batch(m.restoreProject(), emitResult(false, Result{}))
	}

	return m, nil
}

// restoreProject undoes a project change made while cycling, so that
// cancelling really discards everything, scoped refetches included.
func (m Model) restoreProject() tea.Cmd {
	if m.selectedID(m.projects, m.projectIdx) == m.initialProject {
		return nil
	}
	return emitProjectChanged(m.initialProject)
}

func (m Model) cycle(delta int) (Model, tea.Cmd) {
	switch m.focused {
	case fieldProject:
		before := m.selectedID(m.projects, m.projectIdx)
		m.projectIdx = cycleIndex(m.projectIdx, len(m.projects.Options), delta)
		if after := m.selectedID(m.projects, m.projectIdx); after != before {
			return m, emitProjectChanged(after)
		}
	case fieldIssueType:
		m.issueTypeIdx = cycleIndex(m.issueTypeIdx, len(m.issueTypes.Options), delta)
	case fieldStatus:
		m.statusIdx = cycleIndex(m.statusIdx, len(m.statuses.Options), delta)
	case fieldAssignee:
		m.assigneeIdx = cycleIndex(m.assigneeIdx, len(m.users.Options), delta)
	case fieldSprint:
		m.sprint = !m.sprint
	case fieldCreatedFrom:
		m.createdFrom.Focus()
		return m, textinput.Blink
	case fieldCreatedUntil:
		m.createdUntil.Focus()
		return m, textinput.Blink
	case fieldKey:
		m.itemKey.Focus()
		return m, textinput.Blink
	case fieldJQL:
		m.jql.Focus()
		return m, textinput.Blink
	case fieldExpression:
		m.expressionIdx = cycleIndex(m.expressionIdx, len(m.expressions), delta)
	case fieldSort:
		m.sortIdx = (m.sortIdx + delta + len(m.sorts)) % len(m.sorts)
	}
	return m, nil
}

func (m Model) selectedID(set model.OptionSet, idx int) string {
	if idx < 0 || idx >= len(set.Options) {
		return ""
	}
	return set.Options[idx].ID
}

func (m *Model) buildResult() (Result, bool) {
	m.dateErr = ""
	from, err := parseDate(m.createdFrom.Value())
	if err != nil {
		m.dateErr = "created from: " + err.Error()
		return Result{}, false
	}
	until, err := parseDate(m.createdUntil.Value())
	if err != nil {
		m.dateErr = "created until: " + err.Error()
		return Result{}, false
	}

	r := Result{
		ProjectKey:   m.selectedID(m.projects, m.projectIdx),
		IssueTypeID:  m.selectedID(m.issueTypes, m.issueTypeIdx),
		StatusID:     m.selectedID(m.statuses, m.statusIdx),
		AssigneeID:   m.selectedID(m.users, m.assigneeIdx),
		ActiveSprint: m.sprint,
		CreatedFrom:  from,
		CreatedUntil: until,
		WorkItemKey:  strings.TrimSpace(m.itemKey.Value()),
		JQL:          strings.TrimSpace(m.jql.Value()),
		Sort:         m.sorts[m.sortIdx],
	}
	if m.expressionIdx >= 0 && m.expressionIdx < len(m.expressions) {
		r.ExpressionID = m.expressions[m.expressionIdx].ID
	}
	return r, true
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// View renders the overlay.
func (m Model) View() string {
	if !m.active {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Width(14).Foreground(ui.ColorMuted)
	focusedLabelStyle := lipgloss.NewStyle().Width(14).Bold(true).Foreground(ui.ColorPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	allStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)

	dropdown := func(set model.OptionSet, idx int, all string) string {
		if idx < 0 || idx >= len(set.Options) {
			return allStyle.Render(all)
		}
		return valueStyle.Render(set.Options[idx].Label)
	}

	rows := make([]string, 0, int(fieldCount))
	for f := field(0); f < fieldCount; f++ {
		ls := labelStyle
		if f == m.focused {
			ls = focusedLabelStyle
		}

		var label, value string
		switch f {
		case fieldProject:
			label = "Project:"
			value = dropdown(m.projects, m.projectIdx, "All projects")
		case fieldIssueType:
			label = "Type:"
			value = dropdown(m.issueTypes, m.issueTypeIdx, "All types")
		case fieldStatus:
			label = "Status:"
			value = dropdown(m.statuses, m.statusIdx, "All statuses")
		case fieldAssignee:
			label = "Assignee:"
			value = dropdown(m.users, m.assigneeIdx, "Anyone")
		case fieldSprint:
			label = "Sprint:"
			if m.sprint {
				value = valueStyle.Render("open sprints only")
			} else {
				value = allStyle.Render("any sprint")
			}
		case fieldCreatedFrom:
			label = "Created from:"
			value = m.createdFrom.View()
		case fieldCreatedUntil:
			label = "Created until:"
			value = m.createdUntil.View()
		case fieldKey:
			label = "Item key:"
			value = m.itemKey.View()
		case fieldJQL:
			label = "JQL:"
			value = m.jql.View()
		case fieldExpression:
			label = "Saved query:"
			if m.expressionIdx < 0 || m.expressionIdx >= len(m.expressions) {
				value = allStyle.Render("none")
			} else {
				value = valueStyle.Render(m.expressions[m.expressionIdx].Label)
			}
		case fieldSort:
			label = "Sort:"
			value = valueStyle.Render(string(m.sorts[m.sortIdx]))
		}

		cursor := "  "
		if f == m.focused {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, ls.Render(label), value))
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render("Search Filters")

	parts := []string{title, strings.Join(rows, "\n")}
	if m.dateErr != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(ui.ColorFailure).MarginTop(1).Render(m.dateErr))
	}
	parts = append(parts, lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1).
		Render("a: apply  c: clear  esc: cancel"))

	body := lipgloss.JoinVertical(lipgloss.Left, parts...)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(72).
		Render(body)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			box)
	}
	return box
}

func (m *Model) moveFocus(delta int) {
	next := int(m.focused) + delta
	if next < 0 {
		next = int(fieldCount) - 1
	}
	if next >= int(fieldCount) {
		next = 0
	}
	m.focused = field(next)
}

func (m Model) isTextFieldFocused() bool {
	return m.createdFrom.Focused() || m.createdUntil.Focused() ||
		m.itemKey.Focused() || m.jql.Focused()
}

func (m *Model) blurTextInputs() {
	m.createdFrom.Blur()
	m.createdUntil.Blur()
	m.itemKey.Blur()
	m.jql.Blur()
}

func (m *Model) focusCurrentTextInput() {
	switch m.focused {
	case fieldCreatedFrom:
		m.createdFrom.Focus()
	case fieldCreatedUntil:
		m.createdUntil.Focus()
	case fieldKey:
		m.itemKey.Focus()
	case fieldJQL:
		m.jql.Focus()
	}
}

// cycleIndex advances the index by delta. -1 means "all"; going past
// either end wraps through -1.
func cycleIndex(idx, count, delta int) int {
	if count == 0 {
		return -1
	}
	idx += delta
	if idx >= count {
		return -1
	}
	if idx < -1 {
		return count - 1
	}
	return idx
}

func emitResult(applied bool, r Result) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Applied: applied, Result: r}
	}
}

func emitProjectChanged(key string) tea.Cmd {
	return func() tea.Msg {
		return ProjectChangedMsg{Key: key}
	}
}
