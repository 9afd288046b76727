package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/whyisdifficult/jiratui/internal/model"
)

func TestPageFilterApply(t *testing.T) {
	page := []model.WorkItem{
		{Key: "SCRUM-1", Summary: "Login page throws 500"},
		{Key: "SCRUM-2", Summary: "Add audit log export"},
		{Key: "SCRUM-3", Summary: "LOGIN redirect loop"},
	}

	tests := []struct {
		name      string
		filter    PageFilter
		term      string
		wantKeys  []string
		unchanged bool
	}{
		{name: "empty term returns page unchanged", filter: PageFilter{}, term: "", unchanged: true},
		{name: "term below minimum returns page unchanged", filter: PageFilter{}, term: "lo", unchanged: true},
		{name: "case-insensitive substring", filter: PageFilter{}, term: "login", wantKeys: []string{"SCRUM-1", "SCRUM-3"}},
		{name: "uppercase term", filter: PageFilter{}, term: "LOG", wantKeys: []string{"SCRUM-1", "SCRUM-2", "SCRUM-3"}},
		{name: "no match yields empty", filter: PageFilter{}, term: "payment", wantKeys: []string{}},
		{name: "floor of one", filter: PageFilter{MinLength: 1}, term: "x", wantKeys: []string{"SCRUM-2"}},
		{name: "raised minimum disengages short term", filter: PageFilter{MinLength: 6}, term: "login", unchanged: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(tt.term, page)
			if tt.unchanged {
				if diff := cmp.Diff(page, got); diff != "" {
					t.Errorf("page changed (-want +got):\n%s", diff)
				}
				return
			}
			keys := make([]string, 0, len(got))
			for _, item := range got {
				keys = append(keys, item.Key)
			}
			if diff := cmp.Diff(tt.wantKeys, keys); diff != "" {
				t.Errorf("filtered keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPageFilterIsPure(t *testing.T) {
	page := []model.WorkItem{
		{Key: "SCRUM-1", Summary: "alpha"},
		{Key: "SCRUM-2", Summary: "beta"},
	}
	PageFilter{}.Apply("alpha", page)
	if page[0].Key != "SCRUM-1" || page[1].Key != "SCRUM-2" {
		t.Error("Apply mutated its input")
	}
}
