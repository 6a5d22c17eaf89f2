package task

import "strings"

// Filter selects tasks in store reads. The zero value matches every task.
// Fields combine with AND; Tags is set-membership (any listed tag matches).
type Filter struct {
	Status       Status
	Severity     Severity
	Tags         []string
	CreatedBy    string
	HasEmbedding bool
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return f.Status == "" && f.Severity == "" && len(f.Tags) == 0 &&
		f.CreatedBy == "" && !f.HasEmbedding
}

// Matches reports whether the task satisfies every predicate of the filter.
func (f Filter) Matches(t *Task) bool {
	if f.Status != "" && t.Status() != f.Status {
		return false
	}
	if f.Severity != "" && t.Severity() != f.Severity {
		return false
	}
	if f.CreatedBy != "" && t.CreatedBy() != f.CreatedBy {
		return false
	}
	if f.HasEmbedding && !t.HasEmbedding() {
		return false
	}
	if len(f.Tags) > 0 && !anyTagMatch(t.Tags(), f.Tags) {
		return false
	}
	return true
}

func anyTagMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
