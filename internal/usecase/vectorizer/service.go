// Package vectorizer turns task text into fixed-dimension embeddings.
//
// The embedding backend is a capability, not a hard dependency: a Service
// built without one answers every call with ok=false, and callers degrade
// to lexical matching instead of failing the request.
package vectorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
)

// DefaultPoolSize bounds concurrent encode calls. Encoding is CPU/IO-bound
// on the provider side; a small pool keeps request threads free.
const DefaultPoolSize = 2

// Service computes task and query embeddings through a bounded worker pool.
type Service struct {
	embedder domain.Embedder // nil = capability unavailable
	pool     *ants.Pool
	logger   *zap.Logger
}

// New creates a vectorizer. embedder may be nil, in which case the service
// reports unavailable and every embed call returns ok=false.
func New(embedder domain.Embedder, poolSize int, logger *zap.Logger) (*Service, error) {
	if poolSize < 1 {
		poolSize = DefaultPoolSize
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Service{embedder: embedder, pool: pool, logger: logger}, nil
}

// Available reports whether an embedding backend is configured.
func (s *Service) Available() bool {
	return s.embedder != nil
}

// Release shuts down the worker pool.
func (s *Service) Release() {
	s.pool.Release()
}

// EmbedQuery embeds raw query text. ok=false means the backend is missing,
// the text is empty, or encoding failed; callers treat all three the same.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, bool) {
	return s.encode(ctx, strings.TrimSpace(text))
}

// EmbedTask embeds the weighted combination of a task's text fields.
func (s *Service) EmbedTask(ctx context.Context, t TaskText) ([]float32, bool) {
	return s.encode(ctx, BuildText(t))
}

// EmbedTaskBatch embeds multiple tasks in one backend call where possible.
// The returned slice preserves positional correspondence with the input;
// entries are nil for empty inputs or failed encodes.
func (s *Service) EmbedTaskBatch(ctx context.Context, tasks []TaskText) [][]float32 {
	out := make([][]float32, len(tasks))
	if s.embedder == nil || len(tasks) == 0 {
		return out
	}

	// Skip empty inputs but remember where the rest belong.
	var texts []string
	var positions []int
	for i, t := range tasks {
		if text := BuildText(t); text != "" {
			texts = append(texts, text)
			positions = append(positions, i)
		}
	}
	if len(texts) == 0 {
		return out
	}

	vecs, ok := s.encodeBatch(ctx, texts)
	if !ok {
		return out
	}
	for i, vec := range vecs {
		out[positions[i]] = vec
	}
	return out
}

type encodeResult struct {
	vec []float32
	err error
}

func (s *Service) encode(ctx context.Context, text string) ([]float32, bool) {
	if s.embedder == nil || text == "" {
		return nil, false
	}

	ch := make(chan encodeResult, 1)
	if err := s.pool.Submit(func() {
		res, err := s.embedder.Embed(ctx, text)
		ch <- encodeResult{vec: res.Embedding, err: err}
	}); err != nil {
		s.logger.Warn("embed submit failed", zap.Error(err))
		return nil, false
	}

	select {
	case <-ctx.Done():
		return nil, false
	case res := <-ch:
		if res.err != nil {
			s.logger.Warn("embed failed", zap.Error(res.err))
			return nil, false
		}
		if len(res.vec) == 0 {
			return nil, false
		}
		return res.vec, true
	}
}

type batchResult struct {
	vecs [][]float32
	err  error
}

func (s *Service) encodeBatch(ctx context.Context, texts []string) ([][]float32, bool) {
	ch := make(chan batchResult, 1)
	if err := s.pool.Submit(func() {
		vecs, err := s.batchEmbed(ctx, texts)
		ch <- batchResult{vecs: vecs, err: err}
	}); err != nil {
		s.logger.Warn("batch embed submit failed", zap.Error(err))
		return nil, false
	}

	select {
	case <-ctx.Done():
		return nil, false
	case res := <-ch:
		if res.err != nil {
			s.logger.Warn("batch embed failed",
				zap.Int("texts", len(texts)), zap.Error(res.err))
			return nil, false
		}
		return res.vecs, true
	}
}

// batchEmbed prefers a single batch API call, falling back to sequential
// single embeds for backends without batch support.
func (s *Service) batchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if be, ok := s.embedder.(domain.BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return nil, err
		}
		return res.Embeddings, nil
	}

	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		res, err := s.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed [%d]: %w", i, err)
		}
		vecs[i] = res.Embedding
	}
	return vecs, nil
}
