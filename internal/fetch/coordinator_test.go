package fetch

import "testing"

func TestLatestIssuedWins(t *testing.T) {
	c := NewCoordinator()

	first := c.Issue(KindIssueTypes)
	second := c.Issue(KindIssueTypes)

	// The second fetch completes first and commits.
	if !c.Current(KindIssueTypes, second) {
		t.Error("latest issued fetch should be committable")
	}
	// The first completes later and must be dropped.
	if c.Current(KindIssueTypes, first) {
		t.Error("superseded fetch should not be committable")
	}
}

func TestCompletionOrderIrrelevant(t *testing.T) {
	c := NewCoordinator()

	var seqs []uint64
	for i := 0; i < 5; i++ {
		seqs = append(seqs, c.Issue(KindSearch))
	}

	// Complete in reverse order: only the last-issued may commit.
	for i := len(seqs) - 1; i >= 0; i-- {
		got := c.Current(KindSearch, seqs[i])
		want := i == len(seqs)-1
		if got != want {
			t.Errorf("seq %d: Current = %v, want %v", seqs[i], got, want)
		}
	}
}

func TestKindsAreIndependent(t *testing.T) {
	c := NewCoordinator()

	types := c.Issue(KindIssueTypes)
	c.Issue(KindStatuses)
	c.Issue(KindStatuses)

	if !c.Current(KindIssueTypes, types) {
		t.Error("issuing statuses fetches must not supersede issue types")
	}
}

func TestCancelSupersedesInFlight(t *testing.T) {
	c := NewCoordinator()

	seq := c.Issue(KindUsers)
	c.Cancel(KindUsers)

	if c.Current(KindUsers, seq) {
		t.Error("cancelled fetch should not be committable")
	}
}
