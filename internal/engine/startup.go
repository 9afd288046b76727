package engine

import (
	"fmt"

	"github.com/whyisdifficult/jiratui/internal/fetch"
)

// StartupOptions collects the configuration flags and CLI overrides
// that shape process start. The value is immutable once the
// orchestrator is built.
type StartupOptions struct {
	// DefaultProjectKey comes from configuration; ProjectKeyOverride
	// from the CLI and wins when both are set.
	DefaultProjectKey  string
	ProjectKeyOverride string

	WorkItemKeyOverride string

	// DefaultAssigneeID seeds the assignee from the operator's own
	// account id; AssigneeOverride from the CLI wins.
	DefaultAssigneeID string
	AssigneeOverride  string

	// JQLExpressions maps configured expression ids to their JQL text.
	JQLExpressions         map[int]string
	JQLExpressionID        int
	DefaultJQLExpressionID int

	// OnlyFetchProjects skips the unscoped fan-out when no project is
	// pre-selected. A pre-selected project always fans out.
	OnlyFetchProjects bool
	SearchOnStartup   bool
	// FocusOnStartup is the 1-based result row to focus after the
	// startup search. Zero means off.
	FocusOnStartup int
}

// ValidateStartup rejects option combinations before any network call.
func ValidateStartup(opts StartupOptions) error {
	if opts.FocusOnStartup < 0 {
		return fmt.Errorf("focus_item_on_startup must be a positive integer, got %d", opts.FocusOnStartup)
	}
	if opts.FocusOnStartup > 0 && !opts.SearchOnStartup {
		return fmt.Errorf("focus_item_on_startup requires search_on_startup")
	}
	return nil
}

// Orchestrator sequences startup: seed the filter state, issue the
// option fetches, and hold the auto-search until every issued fetch has
// settled so the first search runs against a fully populated filter
// context.
type Orchestrator struct {
	manager *Manager
	coord   *fetch.Coordinator
	opts    StartupOptions

	outstanding map[fetch.Kind]bool
	fired       bool
}

func NewOrchestrator(manager *Manager, coord *fetch.Coordinator, opts StartupOptions) *Orchestrator {
	return &Orchestrator{
		manager:     manager,
		coord:       coord,
		opts:        opts,
		outstanding: make(map[fetch.Kind]bool),
	}
}

// Begin seeds the filter state from overrides and returns the fetches
// to issue. Advisories report ignored or unresolvable inputs.
func (o *Orchestrator) Begin() ([]fetch.Request, []string) {
	var advisories []string

	if id := firstNonEmpty(o.opts.AssigneeOverride, o.opts.DefaultAssigneeID); id != "" {
		o.manager.SelectAssignee(id)
	}
	if o.opts.WorkItemKeyOverride != "" {
		o.manager.SetWorkItemKey(o.opts.WorkItemKeyOverride)
	}
	if id := firstNonZero(o.opts.JQLExpressionID, o.opts.DefaultJQLExpressionID); id != 0 {
		expr, ok := o.opts.JQLExpressions[id]
		switch {
		case !ok:
			advisories = append(advisories, fmt.Sprintf("no JQL expression configured under id %d", id))
		case o.opts.WorkItemKeyOverride != "":
			// The key lookup outranks the expression anyway; skip the
			// seed so clearing the key later does not resurrect it.
			advisories = append(advisories, fmt.Sprintf("JQL expression %d ignored: work item key takes precedence", id))
		default:
			o.manager.SetJQL(expr)
		}
	}

	var reqs []fetch.Request
	project := firstNonEmpty(o.opts.ProjectKeyOverride, o.opts.DefaultProjectKey)
	if project != "" {
		reqs = append(reqs, fetch.Request{
			Kind:       fetch.KindProjects,
			Seq:        o.coord.Issue(fetch.KindProjects),
			ProjectKey: project,
		})
		reqs = append(reqs, o.manager.SelectProject(project)...)
	} else {
		reqs = append(reqs, fetch.Request{
			Kind: fetch.KindProjects,
			Seq:  o.coord.Issue(fetch.KindProjects),
		})
		if !o.opts.OnlyFetchProjects {
			fanout, advisory := o.manager.ClearProject()
			reqs = append(reqs, fanout...)
			if advisory != "" {
				advisories = append(advisories, advisory)
			}
		}
	}

	for _, req := range reqs {
		o.outstanding[req.Kind] = true
	}
	return reqs, advisories
}

// Settle records that a startup fetch for kind finished, successfully
// or not. It returns true exactly once: when the last outstanding fetch
// settles and an auto-search should now be issued.
func (o *Orchestrator) Settle(kind fetch.Kind) bool {
	delete(o.outstanding, kind)
	if o.fired || !o.opts.SearchOnStartup || len(o.outstanding) > 0 {
		return false
	}
	o.fired = true
	return true
}

// FocusIndex returns the zero-based row to focus in a page of count
// items. The second return is false when focus is off; an out-of-range
// index yields an advisory and no focus, the results still render.
func (o *Orchestrator) FocusIndex(count int) (int, bool, string) {
	focus := o.opts.FocusOnStartup
	if focus <= 0 {
		return 0, false, ""
	}
	if count == 0 {
		return 0, false, "cannot focus: the search returned no items"
	}
	if focus > count {
		return 0, false, fmt.Sprintf("cannot focus item %d: only %d results on this page", focus, count)
	}
	return focus - 1, true, ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
