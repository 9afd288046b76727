package engine

import (
	"fmt"
	"sort"

	"github.com/whyisdifficult/jiratui/internal/model"
)

// ProjectOptions builds the project dropdown. The project key doubles
// as the option id because every downstream use (filter state, JQL)
// works with keys.
func ProjectOptions(projects []model.Project) []model.Option {
	options := make([]model.Option, 0, len(projects))
	for _, p := range projects {
		options = append(options, model.Option{
			ID:    p.Key,
			Label: fmt.Sprintf("(%s) %s", p.Key, p.Name),
		})
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options
}

// IssueTypeOptions builds the issue type dropdown. Unscoped lists union
// types across projects, so the same display name may appear under
// several ids; project-scoped types get their project name suffixed to
// keep labels tellable apart. Duplicate ids collapse to one entry.
func IssueTypeOptions(types []model.IssueType) []model.Option {
	options := make([]model.Option, 0, len(types))
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		label := t.Name
		if t.ScopeProjectName != "" {
			label = fmt.Sprintf("%s (%s)", t.Name, t.ScopeProjectName)
		}
		options = append(options, model.Option{ID: t.ID, Label: label})
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options
}

// StatusOptions builds the status dropdown. Project status lists repeat
// a status for every issue type that can reach it, so dedupe by id.
func StatusOptions(statuses []model.Status) []model.Option {
	options := make([]model.Option, 0, len(statuses))
	seen := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		options = append(options, model.Option{ID: s.ID, Label: s.Name})
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options
}

// UserOptions builds the assignee dropdown from account ids.
func UserOptions(users []model.User, ignoreWithoutEmail bool) []model.Option {
	options := make([]model.Option, 0, len(users))
	seen := make(map[string]bool, len(users))
	for _, u := range users {
		if seen[u.AccountID] {
			continue
		}
		if ignoreWithoutEmail && u.Email == "" {
			continue
		}
		seen[u.AccountID] = true
		options = append(options, model.Option{ID: u.AccountID, Label: u.DisplayName})
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options
}
