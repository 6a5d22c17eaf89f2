package search

import (
	"context"
	"sort"
	"sync"

	"github.com/taskhive/taskhive/internal/domain/search/query"
	"github.com/taskhive/taskhive/internal/domain/search/result"
)

// Fusion weights. Fixed policy: changing them changes ranking behavior
// across every client, so they are deliberately not configurable.
const (
	semanticWeight = 0.7
	keywordWeight  = 0.3
)

// searchHybrid runs both matchers over a widened candidate set and fuses
// the rankings. The matchers have no data dependency on each other and run
// concurrently; fusion merges by task identity, so completion order is
// irrelevant.
func (s *Service) searchHybrid(ctx context.Context, q *query.Query) ([]result.Result, error) {
	candidates := q.Limit() * 2

	var (
		wg                 sync.WaitGroup
		semantic, keyword  []result.Result
		semanticErr, kwErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		semantic, semanticErr = s.searchSemantic(ctx, q, candidates, hybridThreshold)
	}()
	go func() {
		defer wg.Done()
		keyword, kwErr = s.searchKeyword(ctx, q, candidates)
	}()
	wg.Wait()

	if semanticErr != nil {
		return nil, semanticErr
	}
	if kwErr != nil {
		return nil, kwErr
	}

	return fuse(semantic, keyword, q.Limit()), nil
}

// fuse merges the two rankings by task identity. A task found by one
// matcher contributes its weighted score alone; a task found by both sums
// the weighted components and is marked SourceBoth. The semantic matcher
// may itself have degraded to keyword results -- those carry
// SourceKeyword and fuse under the semantic weight they arrived with.
func fuse(semantic, keyword []result.Result, limit int) []result.Result {
	type fused struct {
		res        result.Result
		finalScore float64
		inBoth     bool
	}

	merged := make(map[string]*fused, len(semantic)+len(keyword))
	order := make([]string, 0, len(semantic)+len(keyword))

	for i := range semantic {
		id := semantic[i].Task().ID()
		merged[id] = &fused{
			res:        semantic[i],
			finalScore: semantic[i].Similarity() * semanticWeight,
		}
		order = append(order, id)
	}

	for i := range keyword {
		id := keyword[i].Task().ID()
		contribution := keyword[i].Similarity() * keywordWeight
		if entry, ok := merged[id]; ok {
			entry.finalScore += contribution
			entry.inBoth = true
		} else {
			merged[id] = &fused{res: keyword[i], finalScore: contribution}
			order = append(order, id)
		}
	}

	results := make([]result.Result, 0, len(merged))
	for _, id := range order {
		entry := merged[id]
		source := entry.res.Source()
		if entry.inBoth {
			source = result.SourceBoth
		}
		results = append(results, result.New(
			*entry.res.Task(), entry.res.Similarity(), entry.finalScore, source,
		))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore() > results[j].FinalScore()
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
