package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/whyisdifficult/jiratui/internal/fetch"
	"github.com/whyisdifficult/jiratui/internal/model"
	"github.com/whyisdifficult/jiratui/internal/query"
)

// fakeRemote serves stable pages of numbered items, mimicking a remote
// source with fixed data.
type fakeRemote struct {
	total int
}

func (f fakeRemote) page(offset, size int) []model.WorkItem {
	var items []model.WorkItem
	for i := offset; i < offset+size && i < f.total; i++ {
		items = append(items, model.WorkItem{
			ID:      fmt.Sprintf("%d", i+1),
			Key:     fmt.Sprintf("SCRUM-%d", i+1),
			Summary: fmt.Sprintf("item %d", i+1),
		})
	}
	return items
}

func TestStartCommitsFirstPage(t *testing.T) {
	e := NewSearchEngine(fetch.NewCoordinator(), 5)
	remote := fakeRemote{total: 12}
	q := query.Effective{Kind: query.KindStructured, JQL: "order by created DESC"}

	req := e.Start(q)
	if req.Page != 1 {
		t.Fatalf("Start issued page %d, want 1", req.Page)
	}
	if got := e.Offset(req); got != 0 {
		t.Fatalf("Offset = %d, want 0", got)
	}
	if !e.Commit(req, remote.page(0, 5), remote.total, nil) {
		t.Fatal("commit failed")
	}

	s := e.Session()
	if s.Page != 1 || !s.HasMore || s.Total != 12 || len(s.Items) != 5 {
		t.Errorf("session = page %d hasMore %v total %d items %d", s.Page, s.HasMore, s.Total, len(s.Items))
	}
	if s.Query != q {
		t.Errorf("session query = %+v, want %+v", s.Query, q)
	}
}

func TestShortPageEndsPagination(t *testing.T) {
	e := NewSearchEngine(fetch.NewCoordinator(), 5)
	remote := fakeRemote{total: 3}

	req := e.Start(query.Effective{})
	e.Commit(req, remote.page(0, 5), remote.total, nil)

	if e.Session().HasMore {
		t.Error("HasMore = true after a short page")
	}
	if _, err := e.NextPage(); !errors.Is(err, ErrNoNextPage) {
		t.Errorf("NextPage() error = %v, want ErrNoNextPage", err)
	}
}

func TestPreviousPageBoundary(t *testing.T) {
	e := NewSearchEngine(fetch.NewCoordinator(), 5)

	if _, err := e.PreviousPage(); !errors.Is(err, ErrNoSession) {
		t.Errorf("PreviousPage() before any search = %v, want ErrNoSession", err)
	}

	req := e.Start(query.Effective{})
	e.Commit(req, fakeRemote{total: 8}.page(0, 5), 8, nil)
	if _, err := e.PreviousPage(); !errors.Is(err, ErrNoPreviousPage) {
		t.Errorf("PreviousPage() on page 1 = %v, want ErrNoPreviousPage", err)
	}
}

func TestNextThenPreviousReturnsToFirstPage(t *testing.T) {
	e := NewSearchEngine(fetch.NewCoordinator(), 5)
	remote := fakeRemote{total: 12}

	req := e.Start(query.Effective{})
	e.Commit(req, remote.page(e.Offset(req), 5), remote.total, nil)
	first := e.Session().Items

	req, err := e.NextPage()
	if err != nil {
		t.Fatalf("NextPage() error = %v", err)
	}
	if got := e.Offset(req); got != 5 {
		t.Fatalf("page 2 offset = %d, want 5", got)
	}
	e.Commit(req, remote.page(e.Offset(req), 5), remote.total, nil)

	req, err = e.PreviousPage()
	if err != nil {
		t.Fatalf("PreviousPage() error = %v", err)
	}
	e.Commit(req, remote.page(e.Offset(req), 5), remote.total, nil)

	if e.Session().Page != 1 {
		t.Errorf("Page = %d, want 1", e.Session().Page)
	}
	if diff := cmp.Diff(first, e.Session().Items); diff != "" {
		t.Errorf("first page not restored (-want +got):\n%s", diff)
	}
}

func TestNewSearchSupersedesInFlightPage(t *testing.T) {
	e := NewSearchEngine(fetch.NewCoordinator(), 5)
	remote := fakeRemote{total: 20}

	req := e.Start(query.Effective{JQL: "project = OLD order by created DESC"})
	e.Commit(req, remote.page(0, 5), remote.total, nil)
	stale, err := e.NextPage()
	if err != nil {
		t.Fatalf("NextPage() error = %v", err)
	}

	// A brand-new search starts before the page 2 fetch returns.
	fresh := e.Start(query.Effective{JQL: "project = NEW order by created DESC"})

	if e.Commit(stale, remote.page(5, 5), remote.total, nil) {
		t.Fatal("superseded page request committed")
	}
	if !e.Commit(fresh, remote.page(0, 5), remote.total, nil) {
		t.Fatal("fresh search did not commit")
	}
	if got := e.Session().Query.JQL; got != "project = NEW order by created DESC" {
		t.Errorf("session query = %q", got)
	}
	if e.Session().Page != 1 {
		t.Errorf("Page = %d, want 1", e.Session().Page)
	}
}

func TestFailedSearchKeepsPriorSession(t *testing.T) {
	e := NewSearchEngine(fetch.NewCoordinator(), 5)
	remote := fakeRemote{total: 12}

	req := e.Start(query.Effective{JQL: "a order by created DESC"})
	e.Commit(req, remote.page(0, 5), remote.total, nil)

	req = e.Start(query.Effective{JQL: "b order by created DESC"})
	if e.Commit(req, nil, TotalUnknown, errors.New("boom")) {
		t.Fatal("failed search committed")
	}

	s := e.Session()
	if s == nil || s.Query.JQL != "a order by created DESC" {
		t.Errorf("prior session not preserved: %+v", s)
	}
}

func TestTotalUnknown(t *testing.T) {
	e := NewSearchEngine(fetch.NewCoordinator(), 5)
	req := e.Start(query.Effective{})
	e.Commit(req, fakeRemote{total: 12}.page(0, 5), TotalUnknown, nil)
	if got := e.Session().Total; got != TotalUnknown {
		t.Errorf("Total = %d, want TotalUnknown", got)
	}
}
