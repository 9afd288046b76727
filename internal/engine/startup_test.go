package engine

import (
	"testing"

	"github.com/whyisdifficult/jiratui/internal/fetch"
)

func TestValidateStartup(t *testing.T) {
	tests := []struct {
		name    string
		opts    StartupOptions
		wantErr bool
	}{
		{name: "defaults", opts: StartupOptions{}},
		{name: "search only", opts: StartupOptions{SearchOnStartup: true}},
		{name: "focus with search", opts: StartupOptions{SearchOnStartup: true, FocusOnStartup: 1}},
		{name: "focus without search", opts: StartupOptions{FocusOnStartup: 1}, wantErr: true},
		{name: "negative focus", opts: StartupOptions{SearchOnStartup: true, FocusOnStartup: -2}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStartup(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStartup() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBeginWithProjectFansOutScoped(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{})
	o := NewOrchestrator(m, coord, StartupOptions{
		DefaultProjectKey: "SCRUM",
		OnlyFetchProjects: true, // a pre-selected project fans out regardless
		SearchOnStartup:   true,
	})

	reqs, advisories := o.Begin()
	if len(advisories) != 0 {
		t.Errorf("unexpected advisories %v", advisories)
	}
	if len(reqs) != 4 {
		t.Fatalf("Begin issued %d requests, want 4", len(reqs))
	}
	if req := reqByKind(t, reqs, fetch.KindProjects); req.ProjectKey != "SCRUM" {
		t.Errorf("projects request key = %q, want SCRUM", req.ProjectKey)
	}
	for _, kind := range []fetch.Kind{fetch.KindIssueTypes, fetch.KindStatuses, fetch.KindUsers} {
		if req := reqByKind(t, reqs, kind); req.ProjectKey != "SCRUM" {
			t.Errorf("%v request key = %q, want SCRUM", kind, req.ProjectKey)
		}
	}
	if m.State().ProjectKey != "SCRUM" {
		t.Errorf("project not seeded before first search: %q", m.State().ProjectKey)
	}
}

func TestBeginOnlyFetchProjects(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{})
	o := NewOrchestrator(m, coord, StartupOptions{OnlyFetchProjects: true})

	reqs, _ := o.Begin()
	if len(reqs) != 1 || reqs[0].Kind != fetch.KindProjects || reqs[0].ProjectKey != "" {
		t.Errorf("Begin issued %+v, want a single unscoped projects fetch", reqs)
	}
}

func TestBeginUnscopedFanOut(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{FallbackGroupID: "grp-1"})
	o := NewOrchestrator(m, coord, StartupOptions{})

	reqs, advisories := o.Begin()
	if len(advisories) != 0 {
		t.Errorf("unexpected advisories %v", advisories)
	}
	if len(reqs) != 4 {
		t.Fatalf("Begin issued %d requests, want 4", len(reqs))
	}
	if req := reqByKind(t, reqs, fetch.KindUsers); req.GroupID != "grp-1" {
		t.Errorf("users request group = %q, want grp-1", req.GroupID)
	}
}

func TestBeginSeedsOverrides(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{})
	o := NewOrchestrator(m, coord, StartupOptions{
		AssigneeOverride:    "cli-account",
		DefaultAssigneeID:   "cfg-account",
		WorkItemKeyOverride: "",
		JQLExpressions:      map[int]string{2: "assignee = currentUser()"},
		JQLExpressionID:     2,
		OnlyFetchProjects:   true,
	})

	o.Begin()
	st := m.State()
	if st.AssigneeID != "cli-account" {
		t.Errorf("AssigneeID = %q, want the CLI override", st.AssigneeID)
	}
	if st.JQL != "assignee = currentUser()" {
		t.Errorf("JQL = %q, want the configured expression", st.JQL)
	}
}

func TestBeginWorkItemKeyOutranksExpression(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{})
	o := NewOrchestrator(m, coord, StartupOptions{
		WorkItemKeyOverride: "SCRUM-42",
		JQLExpressions:      map[int]string{1: "project = SCRUM"},
		JQLExpressionID:     1,
		OnlyFetchProjects:   true,
	})

	_, advisories := o.Begin()
	if m.State().JQL != "" {
		t.Errorf("JQL seeded despite work item key: %q", m.State().JQL)
	}
	if m.State().WorkItemKey != "SCRUM-42" {
		t.Errorf("WorkItemKey = %q, want SCRUM-42", m.State().WorkItemKey)
	}
	if len(advisories) != 1 {
		t.Errorf("advisories = %v, want one precedence note", advisories)
	}
}

func TestBeginUnknownExpressionID(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{})
	o := NewOrchestrator(m, coord, StartupOptions{JQLExpressionID: 9, OnlyFetchProjects: true})

	_, advisories := o.Begin()
	if len(advisories) != 1 {
		t.Errorf("advisories = %v, want one unknown-id note", advisories)
	}
	if m.State().JQL != "" {
		t.Errorf("JQL = %q, want empty", m.State().JQL)
	}
}

func TestAutoSearchWaitsForAllFetchesToSettle(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{})
	o := NewOrchestrator(m, coord, StartupOptions{
		DefaultProjectKey: "SCRUM",
		SearchOnStartup:   true,
	})

	reqs, _ := o.Begin()
	for i, req := range reqs {
		fired := o.Settle(req.Kind)
		if last := i == len(reqs)-1; fired != last {
			t.Errorf("Settle(%v) = %v after %d of %d fetches", req.Kind, fired, i+1, len(reqs))
		}
	}
	// Settling again never re-fires the search.
	if o.Settle(fetch.KindProjects) {
		t.Error("Settle fired a second auto-search")
	}
}

func TestNoAutoSearchWhenDisabled(t *testing.T) {
	coord := fetch.NewCoordinator()
	m := NewManager(coord, ManagerOptions{})
	o := NewOrchestrator(m, coord, StartupOptions{OnlyFetchProjects: true})

	reqs, _ := o.Begin()
	for _, req := range reqs {
		if o.Settle(req.Kind) {
			t.Error("auto-search fired with search_on_startup off")
		}
	}
}

func TestFocusIndex(t *testing.T) {
	tests := []struct {
		name         string
		focus        int
		count        int
		wantIndex    int
		wantOK       bool
		wantAdvisory bool
	}{
		{name: "focus off", focus: 0, count: 10},
		{name: "first item", focus: 1, count: 10, wantIndex: 0, wantOK: true},
		{name: "last item", focus: 10, count: 10, wantIndex: 9, wantOK: true},
		{name: "out of range", focus: 11, count: 10, wantAdvisory: true},
		{name: "empty page", focus: 1, count: 0, wantAdvisory: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(nil, nil, StartupOptions{
				SearchOnStartup: true,
				FocusOnStartup:  tt.focus,
			})
			index, ok, advisory := o.FocusIndex(tt.count)
			if ok != tt.wantOK || (ok && index != tt.wantIndex) {
				t.Errorf("FocusIndex(%d) = (%d, %v)", tt.count, index, ok)
			}
			if (advisory != "") != tt.wantAdvisory {
				t.Errorf("advisory = %q, want advisory %v", advisory, tt.wantAdvisory)
			}
		})
	}
}
