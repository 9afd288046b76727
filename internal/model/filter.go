package model

import "time"

// SortOrder is the "order by" suffix applied to every search, expressed
// in JQL field/direction form.
type SortOrder string

const (
	SortCreatedDesc  SortOrder = "created DESC"
	SortCreatedAsc   SortOrder = "created ASC"
	SortPriorityDesc SortOrder = "priority DESC"
	SortPriorityAsc  SortOrder = "priority ASC"
	SortKeyDesc      SortOrder = "key DESC"
	SortKeyAsc       SortOrder = "key ASC"
)

func SortOrders() []SortOrder {
	return []SortOrder{
		SortCreatedDesc, SortCreatedAsc,
		SortPriorityDesc, SortPriorityAsc,
		SortKeyDesc, SortKeyAsc,
	}
}

// FullTextMode selects which fields a free-text term is matched against.
type FullTextMode string

const (
	// FullTextStandard searches summary and description.
	FullTextStandard FullTextMode = "standard"
	// FullTextAdvanced searches every text-bearing field including
	// comments. Jira Cloud only.
	FullTextAdvanced FullTextMode = "advanced"
)

// FilterState holds the current values of every search input. It is
// created once at startup and mutated for the process lifetime, only on
// the update goroutine and only through the engine's operations.
type FilterState struct {
	ProjectKey   string
	IssueTypeID  string
	StatusID     string
	AssigneeID   string
	WorkItemKey  string
	CreatedFrom  time.Time // zero = unset
	CreatedUntil time.Time // zero = unset
	ActiveSprint bool
	JQL          string
	FreeText     string
	FreeTextMode FullTextMode
	Sort         SortOrder
}

// HasStructuredFilters reports whether any structured criterion is set.
// The work-item key, JQL text and free-text term are modes, not
// structured criteria.
func (f FilterState) HasStructuredFilters() bool {
	return f.ProjectKey != "" || f.IssueTypeID != "" || f.StatusID != "" ||
		f.AssigneeID != "" || !f.CreatedFrom.IsZero() || !f.CreatedUntil.IsZero() ||
		f.ActiveSprint
}
