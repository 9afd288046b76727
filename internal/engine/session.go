package engine

import (
	"errors"

	"github.com/whyisdifficult/jiratui/internal/fetch"
	"github.com/whyisdifficult/jiratui/internal/model"
	"github.com/whyisdifficult/jiratui/internal/query"
)

// Boundary conditions. These are advisories for the status bar, not
// failures.
var (
	ErrNoSession      = errors.New("no search has run yet")
	ErrNoNextPage     = errors.New("no next page")
	ErrNoPreviousPage = errors.New("already on the first page")
)

// TotalUnknown marks a session whose approximate count fetch failed.
const TotalUnknown = -1

// Session is one paginated search. It is replaced wholesale when a new
// search starts and mutated in place by page transitions.
type Session struct {
	Query    query.Effective
	Page     int
	PageSize int
	Items    []model.WorkItem
	// Total is the approximate number of items the query matches across
	// all pages, or TotalUnknown.
	Total int
	// HasMore is inferred from page fullness. A full page may still be
	// the last one; the next page request then comes back empty.
	HasMore bool
}

// SearchEngine drives paginated retrieval for the current effective
// query. Page requests route through the fetch coordinator under the
// search kind, so a page made obsolete by a brand-new search is
// superseded like any other fetch.
type SearchEngine struct {
	coord    *fetch.Coordinator
	pageSize int

	session *Session
	pending query.Effective
}

func NewSearchEngine(coord *fetch.Coordinator, pageSize int) *SearchEngine {
	if pageSize <= 0 {
		pageSize = 30
	}
	return &SearchEngine{coord: coord, pageSize: pageSize}
}

func (e *SearchEngine) PageSize() int { return e.pageSize }

// Session returns the current session, or nil before the first
// successful search.
func (e *SearchEngine) Session() *Session {
	return e.session
}

// Start begins a new search at page 1. The previous session stays
// visible until the new first page commits.
func (e *SearchEngine) Start(q query.Effective) fetch.Request {
	e.pending = q
	return e.pageRequest(1)
}

// NextPage requests the page after the current one. Disallowed when the
// last page came back short.
func (e *SearchEngine) NextPage() (fetch.Request, error) {
	if e.session == nil {
		return fetch.Request{}, ErrNoSession
	}
	if !e.session.HasMore {
		return fetch.Request{}, ErrNoNextPage
	}
	return e.pageRequest(e.session.Page + 1), nil
}

// PreviousPage requests the page before the current one. Pages are not
// cached; going back re-fetches through the coordinator so the view
// always reflects live data.
func (e *SearchEngine) PreviousPage() (fetch.Request, error) {
	if e.session == nil {
		return fetch.Request{}, ErrNoSession
	}
	if e.session.Page <= 1 {
		return fetch.Request{}, ErrNoPreviousPage
	}
	return e.pageRequest(e.session.Page - 1), nil
}

// Offset converts a page request into the zero-based item offset the
// remote search API expects.
func (e *SearchEngine) Offset(req fetch.Request) int {
	return (req.Page - 1) * e.pageSize
}

// Commit installs a fetched page. Returns false when the result was
// superseded or the fetch failed; a failed search keeps the prior
// session intact.
func (e *SearchEngine) Commit(req fetch.Request, items []model.WorkItem, total int, err error) bool {
	if !e.coord.Current(fetch.KindSearch, req.Seq) {
		return false
	}
	if err != nil {
		return false
	}
	e.session = &Session{
		Query:    e.pending,
		Page:     req.Page,
		PageSize: e.pageSize,
		Items:    items,
		Total:    total,
		HasMore:  len(items) == e.pageSize,
	}
	return true
}

func (e *SearchEngine) pageRequest(page int) fetch.Request {
	return fetch.Request{
		Kind: fetch.KindSearch,
		Seq:  e.coord.Issue(fetch.KindSearch),
		Page: page,
	}
}
