// Package query resolves the full filter state into the single effective
// query that a search will run.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/whyisdifficult/jiratui/internal/model"
)

// Kind reports which input mode won the precedence resolution.
type Kind int

const (
	// KindKeyLookup fetches exactly one work item by key.
	KindKeyLookup Kind = iota
	// KindExpression runs a raw JQL expression as-is.
	KindExpression
	// KindFullText combines a free-text clause with the structured
	// filters.
	KindFullText
	// KindStructured runs the structured filters alone.
	KindStructured
)

// Effective is the resolved query. For KindKeyLookup only Key is set;
// every other kind carries a complete JQL string including sort order.
type Effective struct {
	Kind Kind
	Key  string
	JQL  string
}

// FullTextFloor is the hard minimum term length for full-text search.
// Configuration may raise it but never lower it.
const FullTextFloor = 3

// Builder produces effective queries from filter state. It is built once
// from the immutable configuration and never mutated afterwards.
type Builder struct {
	// DayWindow is the "created within the last N days" default applied
	// when neither created date is set and no stronger mode is active.
	DayWindow int
	// MinTermLength is the configured full-text minimum; values below
	// FullTextFloor are raised to it.
	MinTermLength int
	// AdvancedFullText enables the all-fields expansion. Cloud only;
	// non-cloud installations keep this false.
	AdvancedFullText bool
	// Now is the clock used for the default window. Defaults to
	// time.Now when nil.
	Now func() time.Time
}

// Build evaluates precedence once over the given state. Co-present
// inputs never error: the strongest mode wins and the rest are ignored.
func (b Builder) Build(st model.FilterState) Effective {
	if key := strings.TrimSpace(st.WorkItemKey); key != "" {
		return Effective{Kind: KindKeyLookup, Key: key}
	}

	if expr := CleanExpression(st.JQL); expr != "" {
		return Effective{Kind: KindExpression, JQL: appendSort(expr, st.Sort)}
	}

	clauses := b.structuredClauses(st)

	if term := strings.TrimSpace(st.FreeText); b.termActivates(term) {
		clauses = append(clauses, b.fullTextClause(term, st.FreeTextMode))
		return Effective{Kind: KindFullText, JQL: appendSort(joinAnd(clauses), st.Sort)}
	}

	if st.CreatedFrom.IsZero() && st.CreatedUntil.IsZero() {
		clauses = append(clauses, b.defaultWindowClause())
	}
	return Effective{Kind: KindStructured, JQL: appendSort(joinAnd(clauses), st.Sort)}
}

func (b Builder) termActivates(term string) bool {
	min := b.MinTermLength
	if min < FullTextFloor {
		min = FullTextFloor
	}
	return len([]rune(term)) >= min
}

func (b Builder) fullTextClause(term string, mode model.FullTextMode) string {
	quoted := quote(term)
	if mode == model.FullTextAdvanced && b.AdvancedFullText {
		return fmt.Sprintf("text ~ %s", quoted)
	}
	return fmt.Sprintf("(summary ~ %s OR description ~ %s)", quoted, quoted)
}

func (b Builder) structuredClauses(st model.FilterState) []string {
	var clauses []string
	if st.ProjectKey != "" {
		clauses = append(clauses, fmt.Sprintf("project = %s", st.ProjectKey))
	}
	if !st.CreatedFrom.IsZero() {
		clauses = append(clauses, fmt.Sprintf("created >= %q", st.CreatedFrom.Format("2006-01-02")))
	}
	if !st.CreatedUntil.IsZero() {
		clauses = append(clauses, fmt.Sprintf("created <= %q", st.CreatedUntil.Format("2006-01-02")))
	}
	if st.StatusID != "" {
		clauses = append(clauses, fmt.Sprintf("status = %q", st.StatusID))
	}
	if st.AssigneeID != "" {
		clauses = append(clauses, fmt.Sprintf("assignee = %q", st.AssigneeID))
	}
	if st.IssueTypeID != "" {
		clauses = append(clauses, fmt.Sprintf("type = %s", st.IssueTypeID))
	}
	if st.ActiveSprint {
		clauses = append(clauses, "sprint in openSprints()")
	}
	return clauses
}

func (b Builder) defaultWindowClause() string {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	days := b.DayWindow
	if days <= 0 {
		days = 15
	}
	from := now().AddDate(0, 0, -days)
	return fmt.Sprintf("created >= %q", from.Format("2006-01-02"))
}

// CleanExpression normalizes a user-supplied JQL expression: newlines
// and tabs become spaces and the result is trimmed.
func CleanExpression(expr string) string {
	expr = strings.ReplaceAll(expr, "\n", " ")
	expr = strings.ReplaceAll(expr, "\t", " ")
	return strings.TrimSpace(expr)
}

func joinAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// appendSort adds the order-by suffix unless the expression already
// carries one (a raw JQL expression with its own ordering stays valid
// only if ours is omitted).
func appendSort(jql string, sort model.SortOrder) string {
	if sort == "" {
		sort = model.SortCreatedDesc
	}
	if strings.Contains(strings.ToLower(jql), "order by") {
		return jql
	}
	if jql == "" {
		return fmt.Sprintf("order by %s", sort)
	}
	return fmt.Sprintf("%s order by %s", jql, sort)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
