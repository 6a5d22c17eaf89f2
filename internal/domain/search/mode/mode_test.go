package mode

import "testing"

func TestIsValid(t *testing.T) {
	for _, m := range []Mode{Keyword, Semantic, Hybrid, Intelligent} {
		if !m.IsValid() {
			t.Errorf("%q must be valid", m)
		}
	}
	for _, m := range []Mode{"", "fuzzy", "KEYWORD"} {
		if m.IsValid() {
			t.Errorf("%q must be invalid", m)
		}
	}
}
