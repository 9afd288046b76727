// Package tui wires the search engine into a Bubble Tea program. All
// engine state lives on the update goroutine; fetches run as commands
// that only carry their fetch.Request and report back through messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/whyisdifficult/jiratui/internal/config"
	"github.com/whyisdifficult/jiratui/internal/engine"
	"github.com/whyisdifficult/jiratui/internal/fetch"
	"github.com/whyisdifficult/jiratui/internal/jira"
	"github.com/whyisdifficult/jiratui/internal/model"
	"github.com/whyisdifficult/jiratui/internal/query"
	"github.com/whyisdifficult/jiratui/internal/tui/details"
	"github.com/whyisdifficult/jiratui/internal/tui/filterbar"
	"github.com/whyisdifficult/jiratui/internal/tui/results"
	"github.com/whyisdifficult/jiratui/internal/tui/textsearch"
	"github.com/whyisdifficult/jiratui/internal/ui"
)

type Pane int

const (
	PaneResults Pane = iota
	PaneDetails
)

// Overrides are the CLI flags that seed the filter state at startup.
type Overrides struct {
	ProjectKey      string
	WorkItemKey     string
	AssigneeID      string
	JQLExpressionID int
}

type App struct {
	cfg    config.Config
	client *jira.Client
	logger *zap.Logger

	coord     *fetch.Coordinator
	manager   *engine.Manager
	searchEng *engine.SearchEngine
	orch      *engine.Orchestrator
	builder   query.Builder

	resultsView results.Model
	detailsView details.Model

	filterBar     filterbar.Model
	filterBarOpen bool

	textSearch     textsearch.Model
	textSearchOpen bool

	startupReqs       []fetch.Request
	startupAdvisories []string
	// startupFocusPending holds the configured focus until the startup
	// search's first page lands.
	startupFocusPending bool

	lastSearchReq fetch.Request
	searchLoading bool

	focusedPane Pane
	width       int
	height      int
	status      string
	showHelp    bool
}

func NewApp(cfg config.Config, client *jira.Client, logger *zap.Logger, overrides Overrides) App {
	coord := fetch.NewCoordinator()
	manager := engine.NewManager(coord, engine.ManagerOptions{
		FallbackGroupID:         cfg.UserGroupID,
		IgnoreUsersWithoutEmail: cfg.IgnoreUsersWithoutEmail,
	})
	manager.SetSort(cfg.DefaultSortOrder)

	orch := engine.NewOrchestrator(manager, coord, engine.StartupOptions{
		DefaultProjectKey:      cfg.DefaultProjectKey,
		ProjectKeyOverride:     overrides.ProjectKey,
		WorkItemKeyOverride:    overrides.WorkItemKey,
		DefaultAssigneeID:      cfg.AccountID,
		AssigneeOverride:       overrides.AssigneeID,
		JQLExpressions:         cfg.ExpressionTexts(),
		JQLExpressionID:        overrides.JQLExpressionID,
		DefaultJQLExpressionID: cfg.DefaultJQLExpressionID,
		OnlyFetchProjects:      cfg.OnlyProjects,
		SearchOnStartup:        cfg.SearchOnStartup,
		FocusOnStartup:         cfg.FocusOnStartup,
	})
	startupReqs, advisories := orch.Begin()

	a := App{
		cfg:       cfg,
		client:    client,
		logger:    logger,
		coord:     coord,
		manager:   manager,
		searchEng: engine.NewSearchEngine(coord, cfg.ResultsPerPage),
		orch:      orch,
		builder: query.Builder{
			DayWindow:        cfg.DefaultDayWindow,
			MinTermLength:    cfg.FullTextMinLength,
			AdvancedFullText: cfg.AdvancedFullText && cfg.Cloud,
		},
		resultsView: results.New(
			engine.PageFilter{MinLength: cfg.PageFilterMinLength},
			cfg.PageFilterEnabled,
		),
		detailsView:       details.New(),
		startupReqs:       startupReqs,
		startupAdvisories: advisories,
		status:            "Loading projects...",
	}
	return a
}

func (a App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.startupReqs)+1)
	for _, req := range a.startupReqs {
		cmds = append(cmds, a.fetchCmd(req))
	}
	if len(a.startupAdvisories) > 0 {
		text := strings.Join(a.startupAdvisories, "; ")
		cmds = append(cmds, func() tea.Msg { return ui.StatusMsg{Text: text} })
	}
	return tea.Batch(cmds...)
}

// --- Data fetching commands ---

func (a App) fetchCmd(req fetch.Request) tea.Cmd {
	switch req.Kind {
	case fetch.KindProjects:
		return a.fetchProjects(req)
	case fetch.KindIssueTypes:
		return a.fetchIssueTypes(req)
	case fetch.KindStatuses:
		return a.fetchStatuses(req)
	case fetch.KindUsers:
		return a.fetchUsers(req)
	}
	return nil
}

func (a App) fetchProjects(req fetch.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if req.ProjectKey != "" {
			project, err := a.client.GetProject(ctx, req.ProjectKey)
			if err != nil {
				return ui.ProjectsLoadedMsg{Req: req, Err: err}
			}
			return ui.ProjectsLoadedMsg{Req: req, Projects: []model.Project{*project}}
		}
		projects, err := a.client.ListProjects(ctx)
		return ui.ProjectsLoadedMsg{Req: req, Projects: projects, Err: err}
	}
}

func (a App) fetchIssueTypes(req fetch.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if req.ProjectKey != "" {
			types, err := a.client.ListProjectIssueTypes(ctx, req.ProjectKey)
			return ui.IssueTypesLoadedMsg{Req: req, Types: types, Err: err}
		}
		types, err := a.client.ListAllIssueTypes(ctx)
		return ui.IssueTypesLoadedMsg{Req: req, Types: types, Err: err}
	}
}

func (a App) fetchStatuses(req fetch.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if req.ProjectKey != "" {
			statuses, err := a.client.ListProjectStatuses(ctx, req.ProjectKey)
			return ui.StatusesLoadedMsg{Req: req, Statuses: statuses, Err: err}
		}
		statuses, err := a.client.ListAllStatuses(ctx)
		return ui.StatusesLoadedMsg{Req: req, Statuses: statuses, Err: err}
	}
}

func (a App) fetchUsers(req fetch.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if req.GroupID != "" {
			users, err := a.client.ListUsersByGroup(ctx, req.GroupID)
			return ui.UsersLoadedMsg{Req: req, Users: users, Err: err}
		}
		users, err := a.client.ListAssignableUsers(ctx, req.ProjectKey)
		return ui.UsersLoadedMsg{Req: req, Users: users, Err: err}
	}
}

func (a App) runSearch(req fetch.Request, q query.Effective) tea.Cmd {
	offset := a.searchEng.Offset(req)
	size := a.searchEng.PageSize()
	return func() tea.Msg {
		ctx := context.Background()

		if q.Kind == query.KindKeyLookup {
			item, err := a.client.GetWorkItem(ctx, q.Key)
			if err != nil {
				var remote *jira.RemoteError
				if errors.As(err, &remote) && remote.Kind == jira.ErrNotFound {
					// An unknown key is an empty result, not a failure.
					return ui.SearchLoadedMsg{Req: req, Items: nil, Total: 0}
				}
				return ui.SearchLoadedMsg{Req: req, Err: err}
			}
			return ui.SearchLoadedMsg{Req: req, Items: []model.WorkItem{*item}, Total: 1}
		}

		items, err := a.client.SearchWorkItems(ctx, q.JQL, offset, size)
		if err != nil {
			return ui.SearchLoadedMsg{Req: req, Err: err}
		}
		total := engine.TotalUnknown
		if count, err := a.client.ApproximateCount(ctx, q.JQL); err == nil {
			total = count
		}
		return ui.SearchLoadedMsg{Req: req, Items: items, Total: total}
	}
}

func (a App) fetchItem(req fetch.Request, key string) tea.Cmd {
	return func() tea.Msg {
		item, err := a.client.GetWorkItem(context.Background(), key)
		return ui.ItemLoadedMsg{Req: req, Key: key, Item: item, Err: err}
	}
}

// --- Search triggers ---

func (a *App) startSearch() tea.Cmd {
	q := a.builder.Build(a.manager.State())
	req := a.searchEng.Start(q)
	a.lastSearchReq = req
	a.searchLoading = true
	a.status = "Searching..."
	a.logger.Debug("search issued", zap.Uint64("seq", req.Seq), zap.String("jql", q.JQL), zap.String("key", q.Key))
	return a.runSearch(req, q)
}

func (a *App) turnPage(next bool) tea.Cmd {
	var req fetch.Request
	var err error
	if next {
		req, err = a.searchEng.NextPage()
	} else {
		req, err = a.searchEng.PreviousPage()
	}
	if err != nil {
		a.status = err.Error()
		return nil
	}
	a.lastSearchReq = req
	a.searchLoading = true
	a.status = fmt.Sprintf("Loading page %d...", req.Page)
	return a.runSearch(req, a.searchEng.Session().Query)
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return &a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case filterbar.ProjectChangedMsg:
		cmds := a.applyProjectChange(msg.Key)
		return &a, tea.Batch(cmds...)

	case filterbar.ResultMsg:
		a.filterBarOpen = false
		if !msg.Applied {
			a.status = "Filter changes discarded"
			return &a, nil
		}
		cmds := a.applyFilterResult(msg.Result)
		cmds = append(cmds, a.startSearch())
		return &a, tea.Batch(cmds...)

	case textsearch.ResultMsg:
		a.textSearchOpen = false
		if !msg.Applied {
			return &a, nil
		}
		mode := model.FullTextStandard
		if msg.Advanced {
			mode = model.FullTextAdvanced
		}
		a.manager.SetFreeText(msg.Term, mode)
		return &a, a.startSearch()

	case results.NeedNextPageMsg:
		if a.searchLoading {
			return &a, nil
		}
		return &a, a.turnPage(true)

	case ui.ProjectsLoadedMsg:
		committed := a.manager.CommitProjects(msg.Req, msg.Projects, msg.Err)
		return a.afterOptionsMsg(fetch.KindProjects, committed, msg.Err)

	case ui.IssueTypesLoadedMsg:
		committed := a.manager.CommitIssueTypes(msg.Req, msg.Types, msg.Err)
		return a.afterOptionsMsg(fetch.KindIssueTypes, committed, msg.Err)

	case ui.StatusesLoadedMsg:
		committed := a.manager.CommitStatuses(msg.Req, msg.Statuses, msg.Err)
		return a.afterOptionsMsg(fetch.KindStatuses, committed, msg.Err)

	case ui.UsersLoadedMsg:
		committed := a.manager.CommitUsers(msg.Req, msg.Users, msg.Err)
		return a.afterOptionsMsg(fetch.KindUsers, committed, msg.Err)

	case ui.SearchLoadedMsg:
		return a.handleSearchLoaded(msg)

	case ui.ItemLoadedMsg:
		if !a.coord.Current(fetch.KindItem, msg.Req.Seq) {
			return &a, nil
		}
		if msg.Err != nil {
			a.detailsView.SetError(msg.Err)
			a.status = fmt.Sprintf("Failed to load %s: %v", msg.Key, msg.Err)
			return &a, nil
		}
		a.detailsView.SetItem(msg.Item)
		return &a, nil

	case ui.StatusMsg:
		a.status = msg.Text
		return &a, nil
	}

	return a.forward(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.filterBarOpen {
		var cmd tea.Cmd
		a.filterBar, cmd = a.filterBar.Update(msg)
		return &a, cmd
	}
	if a.textSearchOpen {
		var cmd tea.Cmd
		a.textSearch, cmd = a.textSearch.Update(msg)
		return &a, cmd
	}

	// The page filter input swallows everything except its own exits.
	if a.resultsView.IsFiltering() {
		return a.forward(msg)
	}

	switch {
	case key.Matches(msg, ui.Keys.Quit):
		return &a, tea.Quit

	case key.Matches(msg, ui.Keys.Help):
		a.showHelp = !a.showHelp
		return &a, nil

	case key.Matches(msg, ui.Keys.Tab):
		if a.focusedPane == PaneResults {
			a.focusedPane = PaneDetails
			return &a, a.resultsView.ClearFilter()
		}
		a.focusedPane = PaneResults
		return &a, nil

	case key.Matches(msg, ui.Keys.Filters):
		a.filterBar = filterbar.New(a.manager.State(), a.optionSets(), a.expressionLabels())
		a.filterBar.SetSize(a.width, a.height)
		a.filterBarOpen = true
		return &a, a.filterBar.Init()

	case key.Matches(msg, ui.Keys.TextSearch):
		state := a.manager.State()
		advanced := state.FreeTextMode == model.FullTextAdvanced
		a.textSearch = textsearch.New(state.FreeText, advanced, a.builder.AdvancedFullText)
		a.textSearch.SetSize(a.width, a.height)
		a.textSearchOpen = true
		return &a, a.textSearch.Init()

	case key.Matches(msg, ui.Keys.Refresh):
		return &a, a.startSearch()

	case key.Matches(msg, ui.Keys.NextPage):
		if a.focusedPane == PaneResults && !a.searchLoading {
			return &a, a.turnPage(true)
		}
		return a.forward(msg)

	case key.Matches(msg, ui.Keys.PrevPage):
		if a.focusedPane == PaneResults && !a.searchLoading {
			return &a, a.turnPage(false)
		}
		return a.forward(msg)

	case key.Matches(msg, ui.Keys.Enter):
		if a.focusedPane != PaneResults {
			return a.forward(msg)
		}
		selected := a.resultsView.SelectedItem()
		if selected == nil {
			return &a, nil
		}
		req := fetch.Request{Kind: fetch.KindItem, Seq: a.coord.Issue(fetch.KindItem)}
		a.detailsView.SetLoading(selected.Key)
		a.focusedPane = PaneDetails
		return &a, tea.Batch(a.fetchItem(req, selected.Key), a.resultsView.ClearFilter())

	case key.Matches(msg, ui.Keys.Back):
		if a.focusedPane == PaneDetails {
			a.focusedPane = PaneResults
			return &a, nil
		}
		return a.forward(msg)
	}

	return a.forward(msg)
}

// forward routes a message to the focused pane.
func (a App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.focusedPane == PaneDetails {
		a.detailsView, cmd = a.detailsView.Update(msg)
	} else {
		a.resultsView, cmd = a.resultsView.Update(msg)
	}
	return &a, cmd
}

func (a App) afterOptionsMsg(kind fetch.Kind, committed bool, err error) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if err != nil {
		a.status = fmt.Sprintf("Failed to load %s: %v", kind, err)
		a.logger.Warn("fetch failed", zap.Stringer("kind", kind), zap.Error(err))
	} else if committed && a.filterBarOpen {
		a.filterBar.SetOptions(kind, a.manager.Options(kind))
	}

	// Startup: the auto-search waits until every seeded fetch settled,
	// successfully or not.
	if a.orch.Settle(kind) {
		a.startupFocusPending = a.cfg.FocusOnStartup > 0
		cmds = append(cmds, a.startSearch())
	}
	return &a, tea.Batch(cmds...)
}

func (a App) handleSearchLoaded(msg ui.SearchLoadedMsg) (tea.Model, tea.Cmd) {
	// A superseded fetch is dropped whole: its failure belongs to the
	// old search, not the one still in flight.
	if !a.coord.Current(fetch.KindSearch, msg.Req.Seq) {
		return &a, nil
	}
	if !a.searchEng.Commit(msg.Req, msg.Items, msg.Total, msg.Err) {
		a.searchLoading = false
		a.status = fmt.Sprintf("Search failed: %v", msg.Err)
		a.logger.Warn("search failed", zap.Error(msg.Err))
		if a.searchEng.Session() == nil {
			a.resultsView.SetError(msg.Err)
		}
		return &a, nil
	}

	a.searchLoading = false
	session := a.searchEng.Session()
	cmd := a.resultsView.SetPage(session.Items)
	a.status = pageStatus(session)

	if a.startupFocusPending {
		a.startupFocusPending = false
		if index, ok, advisory := a.orch.FocusIndex(len(session.Items)); ok {
			a.resultsView.Focus(index)
		} else if advisory != "" {
			a.status = advisory
		}
	}
	return &a, cmd
}

func (a *App) applyProjectChange(key string) []tea.Cmd {
	var reqs []fetch.Request
	if key == "" {
		var advisory string
		reqs, advisory = a.manager.ClearProject()
		if advisory != "" {
			a.status = advisory
			if a.filterBarOpen {
				a.filterBar.SetOptions(fetch.KindUsers, a.manager.Options(fetch.KindUsers))
			}
		}
	} else {
		reqs = a.manager.SelectProject(key)
	}
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, a.fetchCmd(req))
	}
	return cmds
}

func (a *App) applyFilterResult(r filterbar.Result) []tea.Cmd {
	var cmds []tea.Cmd
	if r.ProjectKey != a.manager.State().ProjectKey {
		cmds = a.applyProjectChange(r.ProjectKey)
	}
	a.manager.SelectIssueType(r.IssueTypeID)
	a.manager.SelectStatus(r.StatusID)
	a.manager.SelectAssignee(r.AssigneeID)
	a.manager.SetActiveSprint(r.ActiveSprint)
	a.manager.SetCreatedRange(r.CreatedFrom, r.CreatedUntil)
	a.manager.SetWorkItemKey(r.WorkItemKey)
	a.manager.SetSort(r.Sort)

	switch {
	case r.JQL != "":
		a.manager.SetJQL(r.JQL)
	case r.ExpressionID != 0:
		a.manager.SetJQL(a.cfg.ExpressionTexts()[r.ExpressionID])
	default:
		a.manager.SetJQL("")
	}
	return cmds
}

func (a App) optionSets() map[fetch.Kind]model.OptionSet {
	return map[fetch.Kind]model.OptionSet{
		fetch.KindProjects:   a.manager.Options(fetch.KindProjects),
		fetch.KindIssueTypes: a.manager.Options(fetch.KindIssueTypes),
		fetch.KindStatuses:   a.manager.Options(fetch.KindStatuses),
		fetch.KindUsers:      a.manager.Options(fetch.KindUsers),
	}
}

func (a App) expressionLabels() map[int]string {
	labels := make(map[int]string, len(a.cfg.JQLExpressions))
	for id, expr := range a.cfg.JQLExpressions {
		label := expr.Label
		if label == "" {
			label = expr.Expression
		}
		labels[id] = label
	}
	return labels
}

func pageStatus(s *engine.Session) string {
	status := fmt.Sprintf("Page %d", s.Page)
	if s.Total >= 0 {
		status += fmt.Sprintf(" (~%d items)", s.Total)
	}
	if !s.HasMore && s.Page == 1 {
		status = fmt.Sprintf("%d items", len(s.Items))
	}
	return status
}

// --- Layout ---

func (a *App) resize() {
	contentHeight := a.height - 2 // header + status bar
	leftWidth := a.width * 55 / 100
	rightWidth := a.width - leftWidth

	a.resultsView, _ = a.resultsView.Update(tea.WindowSizeMsg{
		Width:  leftWidth - 2,
		Height: contentHeight - 2,
	})
	a.detailsView, _ = a.detailsView.Update(tea.WindowSizeMsg{
		Width:  rightWidth - 2,
		Height: contentHeight - 2,
	})
	a.filterBar.SetSize(a.width, a.height)
	a.textSearch.SetSize(a.width, a.height)
}

func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.filterBarOpen {
		return a.filterBar.View()
	}
	if a.textSearchOpen {
		return a.textSearch.View()
	}

	scope := "all projects"
	if projectKey := a.manager.State().ProjectKey; projectKey != "" {
		scope = projectKey
	}
	pages := ""
	if s := a.searchEng.Session(); s != nil {
		pages = pageStatus(s)
	}
	header := RenderHeader(scope, pages, a.width)

	contentHeight := a.height - 2
	leftWidth := a.width * 55 / 100
	rightWidth := a.width - leftWidth

	leftStyle, rightStyle := ui.StylePane, ui.StylePane
	if a.focusedPane == PaneResults {
		leftStyle = ui.StylePaneFocused
	} else {
		rightStyle = ui.StylePaneFocused
	}

	left := leftStyle.Width(leftWidth - 2).Height(contentHeight - 2).Render(a.resultsView.View())
	right := rightStyle.Width(rightWidth - 2).Height(contentHeight - 2).Render(a.detailsView.View())
	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	hints := "?: help"
	if a.showHelp {
		var parts []string
		for _, b := range a.resultsView.ShortHelp() {
			parts = append(parts, b.Help().Key+": "+b.Help().Desc)
		}
		parts = append(parts, "r: refresh", "q: quit")
		hints = strings.Join(parts, "  ")
	}
	statusBar := RenderStatusBar(a.status, hints, a.width)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
