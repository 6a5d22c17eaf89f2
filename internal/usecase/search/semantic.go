package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/taskhive/taskhive/internal/domain/search/query"
	"github.com/taskhive/taskhive/internal/domain/search/result"
	"github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/domain/vector"
)

// Similarity thresholds. Hybrid search uses the looser one since fusion
// re-filters by rank afterwards.
const (
	semanticThreshold = 0.3
	hybridThreshold   = 0.2
)

// searchSemantic ranks tasks by cosine similarity between the query
// embedding and stored task embeddings. When the query cannot be embedded
// it transparently delegates to keyword search with the same arguments;
// semantic search never fails a request because the model is absent.
func (s *Service) searchSemantic(
	ctx context.Context, q *query.Query, limit int, threshold float64,
) ([]result.Result, error) {
	queryVec, ok := s.vectorizer.EmbedQuery(ctx, q.Text())
	if !ok {
		s.logger.Debug("query embedding unavailable, falling back to keyword search")
		return s.searchKeyword(ctx, q, limit)
	}

	tasks, err := s.tasks.Find(ctx, task.Filter{
		CreatedBy:    q.ScopeUserID(),
		HasEmbedding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("find embedded tasks: %w", err)
	}

	results := make([]result.Result, 0, len(tasks))
	for i := range tasks {
		sim := vector.Cosine(queryVec, tasks[i].Embedding())
		if sim >= threshold {
			results = append(results, result.New(tasks[i], sim, sim, result.SourceSemantic))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore() > results[j].FinalScore()
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
