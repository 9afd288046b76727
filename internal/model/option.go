package model

// Option is a single selectable entry in a dropdown. IDs are the only
// reliable discriminator: unscoped issue-type and status lists may carry
// the same display name under different ids.
type Option struct {
	ID      string
	Label   string
	Current bool
}

// OptionSet is the full list of options offered by one dropdown at a
// point in time. Sets are replaced wholesale, never patched; Generation
// increases on every successful replacement so stale views can detect
// that they render old data.
type OptionSet struct {
	Options    []Option
	ProjectKey string // "" when the set was computed without a project
	Generation uint64
}

func (s OptionSet) Contains(id string) bool {
	for _, o := range s.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (s OptionSet) LabelFor(id string) string {
	for _, o := range s.Options {
		if o.ID == id {
			return o.Label
		}
	}
	return ""
}
