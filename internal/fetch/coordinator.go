// Package fetch enforces at-most-one-committed-fetch per resource kind.
//
// Every asynchronous fetch is issued with a per-kind sequence number and
// its result is committed only if no newer fetch for the same kind was
// issued in the meantime. Supersession is by issuance order, not
// completion order: a fetch issued later wins even if it completes
// earlier, and an older fetch that completes late is silently dropped.
package fetch

// Kind identifies one logical remote resource.
type Kind int

const (
	KindProjects Kind = iota
	KindIssueTypes
	KindStatuses
	KindUsers
	KindSearch
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindProjects:
		return "projects"
	case KindIssueTypes:
		return "issue types"
	case KindStatuses:
		return "statuses"
	case KindUsers:
		return "users"
	case KindSearch:
		return "search"
	case KindItem:
		return "work item"
	}
	return "unknown"
}

// Request describes one issued fetch. It travels with the asynchronous
// task and comes back attached to the result message so the commit check
// can run against the coordinator.
type Request struct {
	Kind Kind
	Seq  uint64

	// ProjectKey scopes issue-type/status/user fetches. Empty means the
	// unscoped ("no project") form. For KindProjects a non-empty key
	// asks for that single project.
	ProjectKey string
	// GroupID is set on KindUsers requests that resolve users through
	// the configured fallback group.
	GroupID string
	// Page is the 1-based target page on KindSearch requests.
	Page int
}

// Coordinator tracks the most recently issued sequence number per kind.
//
// It is used exclusively from the Bubble Tea update goroutine; issuing
// and committing never race, so there is no locking. The fetches
// themselves run on background goroutines but only carry their Request
// value — they never touch the coordinator.
type Coordinator struct {
	latest map[Kind]uint64
}

func NewCoordinator() *Coordinator {
	return &Coordinator{latest: make(map[Kind]uint64)}
}

// Issue registers a new fetch for kind and returns its sequence number.
// Any fetch for the same kind still in flight is superseded from this
// point on.
func (c *Coordinator) Issue(kind Kind) uint64 {
	c.latest[kind]++
	return c.latest[kind]
}

// Current reports whether seq is still the latest issued fetch for kind,
// i.e. whether its result may be committed.
func (c *Coordinator) Current(kind Kind, seq uint64) bool {
	return c.latest[kind] == seq
}

// Cancel advisorily cancels any in-flight fetch for kind. The task keeps
// running but its result will fail the commit check.
func (c *Coordinator) Cancel(kind Kind) {
	c.latest[kind]++
}
