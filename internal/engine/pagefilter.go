package engine

import (
	"strings"

	"github.com/whyisdifficult/jiratui/internal/model"
)

// PageFilter narrows the already-fetched page by a case-insensitive
// substring match on item summaries. It never touches the network and
// never mutates the session; callers re-apply it to render and drop the
// term when the session changes.
type PageFilter struct {
	// MinLength is the term length below which the filter stays
	// disengaged. Defaults to 3, floor 1.
	MinLength int
}

func (f PageFilter) minLength() int {
	if f.MinLength < 1 {
		return 3
	}
	return f.MinLength
}

// Active reports whether the term is long enough to engage the filter.
func (f PageFilter) Active(term string) bool {
	return len([]rune(strings.TrimSpace(term))) >= f.minLength()
}

// Apply returns the items whose summary contains term. A term too short
// to engage returns the page unchanged.
func (f PageFilter) Apply(term string, page []model.WorkItem) []model.WorkItem {
	term = strings.TrimSpace(term)
	if !f.Active(term) {
		return page
	}
	needle := strings.ToLower(term)
	filtered := make([]model.WorkItem, 0, len(page))
	for _, item := range page {
		if strings.Contains(strings.ToLower(item.Summary), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
