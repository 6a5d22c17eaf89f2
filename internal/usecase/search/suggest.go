package search

import (
	"sort"
	"strings"

	"github.com/taskhive/taskhive/internal/domain/search/result"
)

const (
	maxSuggestions   = 5
	suggestionWindow = 10 // only the top results drive tag frequency
)

// companionTerms maps a trigger word in the query to a refinement worth
// suggesting when the query does not already mention it.
var companionTerms = []struct {
	trigger   string
	companion string
}{
	{"bug", "critical"},
	{"feature", "enhancement"},
	{"ui", "frontend"},
}

// suggest derives follow-up query terms: the most frequent tags across the
// top results that the query does not already mention, then fixed
// companion-term heuristics. At most five, no case-insensitive duplicates.
func suggest(originalQuery string, results []result.Result) []string {
	queryLower := strings.ToLower(originalQuery)

	window := results
	if len(window) > suggestionWindow {
		window = window[:suggestionWindow]
	}

	freq := make(map[string]int)
	var firstSeen []string
	for i := range window {
		for _, tag := range window[i].Task().Tags() {
			if tag == "" {
				continue
			}
			if _, ok := freq[tag]; !ok {
				firstSeen = append(firstSeen, tag)
			}
			freq[tag]++
		}
	}

	// Rank by descending frequency; first appearance breaks ties so the
	// output is deterministic.
	ranked := make([]string, len(firstSeen))
	copy(ranked, firstSeen)
	sort.SliceStable(ranked, func(i, j int) bool {
		return freq[ranked[i]] > freq[ranked[j]]
	})
	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}

	var suggestions []string
	seen := make(map[string]bool, maxSuggestions)

	add := func(s string) {
		key := strings.ToLower(s)
		if seen[key] || strings.Contains(queryLower, key) {
			return
		}
		seen[key] = true
		suggestions = append(suggestions, s)
	}

	for _, tag := range ranked {
		add(tag)
	}

	for _, ct := range companionTerms {
		if strings.Contains(queryLower, ct.trigger) {
			add(ct.companion)
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
