package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/taskhive/taskhive/internal/domain/search/query"
	"github.com/taskhive/taskhive/internal/domain/search/result"
	"github.com/taskhive/taskhive/internal/domain/task"
)

// Per-term relevance contributions. A term can score in several fields at
// once; contributions add up across terms and fields, uncapped.
const (
	titleWeight       = 3.0
	tagWeight         = 2.0
	descriptionWeight = 1.0
)

// searchKeyword matches query terms against title, description, and tags.
// A task matches when any whitespace-split term occurs case-insensitively
// as a substring of title or description, or equals a tag.
func (s *Service) searchKeyword(
	ctx context.Context, q *query.Query, limit int,
) ([]result.Result, error) {
	terms := strings.Fields(q.Text())
	if len(terms) == 0 {
		return nil, nil
	}

	tasks, err := s.tasks.Find(ctx, task.Filter{CreatedBy: q.ScopeUserID()})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	results := make([]result.Result, 0, len(tasks))
	for i := range tasks {
		score := keywordRelevance(&tasks[i], terms)
		if score > 0 {
			results = append(results, result.New(tasks[i], score, score, result.SourceKeyword))
		}
	}

	// Stable sort keeps the store's created_at-descending order for ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore() > results[j].FinalScore()
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// keywordRelevance sums per-term contributions: 3.0 for a title substring,
// 2.0 for an exact tag match, 1.0 for a description substring.
func keywordRelevance(t *task.Task, terms []string) float64 {
	title := strings.ToLower(t.Title())
	description := strings.ToLower(t.Description())
	tags := make([]string, len(t.Tags()))
	for i, tag := range t.Tags() {
		tags[i] = strings.ToLower(tag)
	}

	var score float64
	for _, term := range terms {
		term = strings.ToLower(term)

		if strings.Contains(title, term) {
			score += titleWeight
		}
		for _, tag := range tags {
			if tag == term {
				score += tagWeight
				break
			}
		}
		if strings.Contains(description, term) {
			score += descriptionWeight
		}
	}
	return score
}
