// Package search ranks stored tasks against free-text queries, fusing
// lexical term matching with embedding cosine similarity and an optional
// AI query-rewrite step.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/search/mode"
	"github.com/taskhive/taskhive/internal/domain/search/query"
	"github.com/taskhive/taskhive/internal/domain/search/result"
	"github.com/taskhive/taskhive/internal/metrics"
)

// Service handles task search across keyword, semantic, hybrid, and
// intelligent modes.
type Service struct {
	tasks      TaskFinder
	vectorizer Vectorizer
	assistant  Assistant // nil = AI enhancement disabled
	logger     *zap.Logger
}

// New creates a search service. assistant may be nil, disabling query
// enhancement (intelligent mode then behaves like hybrid plus suggestions).
func New(tasks TaskFinder, vectorizer Vectorizer, assistant Assistant, logger *zap.Logger) *Service {
	return &Service{tasks: tasks, vectorizer: vectorizer, assistant: assistant, logger: logger}
}

// Response is the search outcome. EnhancedQuery equals the query text
// unless intelligent mode rewrote it; Suggestions is non-empty only for
// intelligent mode.
type Response struct {
	Results       []result.Result
	EnhancedQuery string
	Suggestions   []string
}

// Search executes a search in the mode carried by the query. Embedding and
// assistant outages degrade to narrower results; only a store failure
// surfaces as an error.
func (s *Service) Search(ctx context.Context, q *query.Query) (Response, error) {
	resp, err := s.dispatch(ctx, q)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(q.Mode()), status).Inc()

	return resp, err
}

func (s *Service) dispatch(ctx context.Context, q *query.Query) (Response, error) {
	switch q.Mode() {
	case mode.Keyword:
		results, err := s.searchKeyword(ctx, q, q.Limit())
		return Response{Results: results, EnhancedQuery: q.Text()}, err

	case mode.Semantic:
		results, err := s.searchSemantic(ctx, q, q.Limit(), semanticThreshold)
		return Response{Results: results, EnhancedQuery: q.Text()}, err

	case mode.Hybrid:
		results, err := s.searchHybrid(ctx, q)
		return Response{Results: results, EnhancedQuery: q.Text()}, err

	case mode.Intelligent:
		return s.searchIntelligent(ctx, q)

	default:
		return Response{}, fmt.Errorf("%w: unsupported mode %q", domain.ErrInvalidQuery, q.Mode())
	}
}

// searchIntelligent enhances the query, runs hybrid search over the
// enhanced text, and derives suggestions from the original text plus the
// results. Enhancement failures are absorbed by enhanceQuery; suggestion
// generation is pure and cannot fail.
func (s *Service) searchIntelligent(ctx context.Context, q *query.Query) (Response, error) {
	enhanced := s.enhanceQuery(ctx, q.Text())

	hq := q.WithText(enhanced)
	results, err := s.searchHybrid(ctx, &hq)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Results:       results,
		EnhancedQuery: enhanced,
		Suggestions:   suggest(q.Text(), results),
	}, nil
}
