package vectorizer

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

// mockBatchEmbedder additionally supports the batch API.
type mockBatchEmbedder struct {
	mockEmbedder
	batchVecs  [][]float32
	batchErr   error
	batchCalls int
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	return domain.BatchEmbeddingResult{Embeddings: m.batchVecs[:len(texts)]}, nil
}

func mustService(t *testing.T, embedder domain.Embedder) *Service {
	t.Helper()
	svc, err := New(embedder, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(svc.Release)
	return svc
}

// --- Tests ---

func TestEmbedQuery(t *testing.T) {
	svc := mustService(t, &mockEmbedder{vec: []float32{0.1, 0.2}})

	vec, ok := svc.EmbedQuery(context.Background(), "login bug")
	if !ok {
		t.Fatal("expected ok")
	}
	if !reflect.DeepEqual(vec, []float32{0.1, 0.2}) {
		t.Errorf("unexpected vector %v", vec)
	}
}

func TestEmbedQuery_NilEmbedder(t *testing.T) {
	svc := mustService(t, nil)

	if svc.Available() {
		t.Error("expected unavailable without a backend")
	}
	if _, ok := svc.EmbedQuery(context.Background(), "login"); ok {
		t.Error("expected ok=false without a backend")
	}
}

func TestEmbedQuery_EmptyText(t *testing.T) {
	embedder := &mockEmbedder{vec: []float32{1}}
	svc := mustService(t, embedder)

	if _, ok := svc.EmbedQuery(context.Background(), "   "); ok {
		t.Error("expected ok=false for blank text")
	}
	if embedder.calls != 0 {
		t.Error("blank text must not reach the backend")
	}
}

func TestEmbedQuery_BackendError(t *testing.T) {
	svc := mustService(t, &mockEmbedder{err: errors.New("rate limited")})

	if _, ok := svc.EmbedQuery(context.Background(), "login"); ok {
		t.Error("expected ok=false on backend error")
	}
}

// blockingEmbedder never returns until the context is done.
type blockingEmbedder struct{}

func (blockingEmbedder) Embed(ctx context.Context, _ string) (domain.EmbeddingResult, error) {
	<-ctx.Done()
	return domain.EmbeddingResult{}, ctx.Err()
}

func TestEmbedQuery_CanceledContext(t *testing.T) {
	svc := mustService(t, blockingEmbedder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := svc.EmbedQuery(ctx, "login"); ok {
		t.Error("expected ok=false for a canceled context")
	}
}

func TestEmbedTask(t *testing.T) {
	svc := mustService(t, &mockEmbedder{vec: []float32{0.5}})

	vec, ok := svc.EmbedTask(context.Background(), TaskText{Title: "Login bug"})
	if !ok || len(vec) != 1 {
		t.Fatalf("expected a vector, got ok=%v vec=%v", ok, vec)
	}
}

func TestEmbedTask_EmptyTask(t *testing.T) {
	svc := mustService(t, &mockEmbedder{vec: []float32{1}})

	if _, ok := svc.EmbedTask(context.Background(), TaskText{}); ok {
		t.Error("expected ok=false for a task with no text")
	}
}

func TestEmbedTaskBatch_PreservesPositions(t *testing.T) {
	embedder := &mockBatchEmbedder{
		batchVecs: [][]float32{{1}, {2}},
	}
	svc := mustService(t, embedder)

	tasks := []TaskText{
		{Title: "first"},
		{}, // empty, must stay nil
		{Title: "second"},
	}
	out := svc.EmbedTaskBatch(context.Background(), tasks)
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	if !reflect.DeepEqual(out[0], []float32{1}) {
		t.Errorf("position 0: got %v", out[0])
	}
	if out[1] != nil {
		t.Errorf("position 1 must stay nil, got %v", out[1])
	}
	if !reflect.DeepEqual(out[2], []float32{2}) {
		t.Errorf("position 2: got %v", out[2])
	}
	if embedder.batchCalls != 1 {
		t.Errorf("expected one batch call, got %d", embedder.batchCalls)
	}
	if embedder.calls != 0 {
		t.Errorf("batch-capable backend must not receive single embeds, got %d", embedder.calls)
	}
}

func TestEmbedTaskBatch_SequentialFallback(t *testing.T) {
	embedder := &mockEmbedder{vec: []float32{1}}
	svc := mustService(t, embedder)

	out := svc.EmbedTaskBatch(context.Background(), []TaskText{
		{Title: "a"}, {Title: "b"},
	})
	if embedder.calls != 2 {
		t.Errorf("expected 2 single embeds, got %d", embedder.calls)
	}
	for i := range out {
		if out[i] == nil {
			t.Errorf("position %d: expected a vector", i)
		}
	}
}

func TestEmbedTaskBatch_NilEmbedder(t *testing.T) {
	svc := mustService(t, nil)

	out := svc.EmbedTaskBatch(context.Background(), []TaskText{{Title: "a"}})
	if len(out) != 1 || out[0] != nil {
		t.Errorf("expected [nil], got %v", out)
	}
}

func TestEmbedTaskBatch_BatchErrorDropsAll(t *testing.T) {
	embedder := &mockBatchEmbedder{batchErr: errors.New("boom")}
	svc := mustService(t, embedder)

	out := svc.EmbedTaskBatch(context.Background(), []TaskText{{Title: "a"}, {Title: "b"}})
	for i := range out {
		if out[i] != nil {
			t.Errorf("position %d: expected nil on batch failure", i)
		}
	}
}
