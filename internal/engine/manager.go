// Package engine keeps the four dependent filters consistent, drives
// the fetches they need and paginates search results. All of its state
// is owned by the Bubble Tea update loop; methods are never called from
// background goroutines.
package engine

import (
	"time"

	"github.com/whyisdifficult/jiratui/internal/fetch"
	"github.com/whyisdifficult/jiratui/internal/model"
)

// ManagerOptions is the configuration slice the dependency graph needs.
type ManagerOptions struct {
	// FallbackGroupID resolves assignee options when no project is
	// selected. Empty means users cannot be resolved without a project.
	FallbackGroupID string
	// IgnoreUsersWithoutEmail drops users that carry no email address
	// from the assignee options.
	IgnoreUsersWithoutEmail bool
}

// Manager owns the filter state and the option sets behind the four
// dropdowns. Selection changes produce fetch requests; fetch results
// come back through the Commit methods, which apply the supersession
// check before touching any state.
type Manager struct {
	coord *fetch.Coordinator
	opts  ManagerOptions

	state   model.FilterState
	options map[fetch.Kind]model.OptionSet
}

func NewManager(coord *fetch.Coordinator, opts ManagerOptions) *Manager {
	return &Manager{
		coord:   coord,
		opts:    opts,
		options: make(map[fetch.Kind]model.OptionSet),
	}
}

// State returns a snapshot of the current filter state.
func (m *Manager) State() model.FilterState {
	return m.state
}

// Options returns the current option set for a dropdown kind.
func (m *Manager) Options(kind fetch.Kind) model.OptionSet {
	return m.options[kind]
}

// SelectProject records the new project and fans out the three scoped
// fetches its dependent dropdowns need.
func (m *Manager) SelectProject(key string) []fetch.Request {
	m.state.ProjectKey = key
	return []fetch.Request{
		{Kind: fetch.KindIssueTypes, Seq: m.coord.Issue(fetch.KindIssueTypes), ProjectKey: key},
		{Kind: fetch.KindStatuses, Seq: m.coord.Issue(fetch.KindStatuses), ProjectKey: key},
		{Kind: fetch.KindUsers, Seq: m.coord.Issue(fetch.KindUsers), ProjectKey: key},
	}
}

// ClearProject drops the project selection and re-issues the dependent
// fetches in their unscoped form. Issue types and statuses become the
// union across all projects. Users fall back to the configured group;
// without one the set empties out and an advisory is returned.
func (m *Manager) ClearProject() ([]fetch.Request, string) {
	m.state.ProjectKey = ""
	reqs := []fetch.Request{
		{Kind: fetch.KindIssueTypes, Seq: m.coord.Issue(fetch.KindIssueTypes)},
		{Kind: fetch.KindStatuses, Seq: m.coord.Issue(fetch.KindStatuses)},
	}
	var advisory string
	if m.opts.FallbackGroupID != "" {
		reqs = append(reqs, fetch.Request{
			Kind:    fetch.KindUsers,
			Seq:     m.coord.Issue(fetch.KindUsers),
			GroupID: m.opts.FallbackGroupID,
		})
	} else {
		m.coord.Cancel(fetch.KindUsers)
		m.replaceOptions(fetch.KindUsers, nil, "")
		if m.state.AssigneeID != "" {
			m.state.AssigneeID = ""
		}
		advisory = "unable to resolve assignable users: no fallback user group configured"
	}
	return reqs, advisory
}

// Selection setters. Dropdown selections are validated against the
// current option set on every commit, not here.

func (m *Manager) SelectIssueType(id string) { m.state.IssueTypeID = id }
func (m *Manager) SelectStatus(id string)    { m.state.StatusID = id }
func (m *Manager) SelectAssignee(id string)  { m.state.AssigneeID = id }

func (m *Manager) SetWorkItemKey(key string) { m.state.WorkItemKey = key }
func (m *Manager) SetJQL(expr string)        { m.state.JQL = expr }
func (m *Manager) SetActiveSprint(on bool)   { m.state.ActiveSprint = on }
func (m *Manager) SetSort(s model.SortOrder) { m.state.Sort = s }

func (m *Manager) SetFreeText(term string, mode model.FullTextMode) {
	m.state.FreeText = term
	m.state.FreeTextMode = mode
}

func (m *Manager) SetCreatedRange(from, until time.Time) {
	m.state.CreatedFrom = from
	m.state.CreatedUntil = until
}

// CommitProjects installs a fresh project option set. Returns false
// when the result was superseded or the fetch failed; a failed fetch
// leaves the previous set in place.
func (m *Manager) CommitProjects(req fetch.Request, projects []model.Project, err error) bool {
	if !m.coord.Current(req.Kind, req.Seq) {
		return false
	}
	if err != nil {
		return false
	}
	m.replaceOptions(fetch.KindProjects, ProjectOptions(projects), req.ProjectKey)
	// Project options use the project key as id, so the selection
	// revalidates the same way as the other kinds.
	if m.state.ProjectKey != "" && !m.options[fetch.KindProjects].Contains(m.state.ProjectKey) {
		m.state.ProjectKey = ""
	}
	return true
}

func (m *Manager) CommitIssueTypes(req fetch.Request, types []model.IssueType, err error) bool {
	if !m.coord.Current(req.Kind, req.Seq) {
		return false
	}
	if err != nil {
		return false
	}
	m.replaceOptions(fetch.KindIssueTypes, IssueTypeOptions(types), req.ProjectKey)
	if m.state.IssueTypeID != "" && !m.options[fetch.KindIssueTypes].Contains(m.state.IssueTypeID) {
		m.state.IssueTypeID = ""
	}
	return true
}

func (m *Manager) CommitStatuses(req fetch.Request, statuses []model.Status, err error) bool {
	if !m.coord.Current(req.Kind, req.Seq) {
		return false
	}
	if err != nil {
		return false
	}
	m.replaceOptions(fetch.KindStatuses, StatusOptions(statuses), req.ProjectKey)
	if m.state.StatusID != "" && !m.options[fetch.KindStatuses].Contains(m.state.StatusID) {
		m.state.StatusID = ""
	}
	return true
}

func (m *Manager) CommitUsers(req fetch.Request, users []model.User, err error) bool {
	if !m.coord.Current(req.Kind, req.Seq) {
		return false
	}
	if err != nil {
		return false
	}
	m.replaceOptions(fetch.KindUsers, UserOptions(users, m.opts.IgnoreUsersWithoutEmail), req.ProjectKey)
	if m.state.AssigneeID != "" && !m.options[fetch.KindUsers].Contains(m.state.AssigneeID) {
		m.state.AssigneeID = ""
	}
	return true
}

// replaceOptions swaps a dropdown's option set wholesale and bumps its
// generation.
func (m *Manager) replaceOptions(kind fetch.Kind, options []model.Option, projectKey string) {
	prev := m.options[kind]
	m.options[kind] = model.OptionSet{
		Options:    options,
		ProjectKey: projectKey,
		Generation: prev.Generation + 1,
	}
}
