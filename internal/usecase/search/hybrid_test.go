package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/domain/search/mode"
	"github.com/taskhive/taskhive/internal/domain/search/result"
	"github.com/taskhive/taskhive/internal/domain/task"
)

func TestFuse_WeightsAndSources(t *testing.T) {
	both := makeTask("both", "x", "", nil, nil)
	semOnly := makeTask("sem", "y", "", nil, nil)
	kwOnly := makeTask("kw", "z", "", nil, nil)

	semantic := []result.Result{
		result.New(both, 0.8, 0.8, result.SourceSemantic),
		result.New(semOnly, 0.5, 0.5, result.SourceSemantic),
	}
	keyword := []result.Result{
		result.New(both, 6.0, 6.0, result.SourceKeyword),
		result.New(kwOnly, 3.0, 3.0, result.SourceKeyword),
	}

	fused := fuse(semantic, keyword, 10)
	if len(fused) != 3 {
		t.Fatalf("expected 3 results, got %d", len(fused))
	}

	// both: 0.8*0.7 + 6.0*0.3 = 2.36; kw: 3.0*0.3 = 0.9; sem: 0.5*0.7 = 0.35.
	wantOrder := []string{"both", "kw", "sem"}
	wantScore := []float64{2.36, 0.9, 0.35}
	wantSource := []result.Source{result.SourceBoth, result.SourceKeyword, result.SourceSemantic}
	for i := range fused {
		if fused[i].Task().ID() != wantOrder[i] {
			t.Errorf("position %d: expected %q, got %q", i, wantOrder[i], fused[i].Task().ID())
		}
		if math.Abs(fused[i].FinalScore()-wantScore[i]) > scoreEps {
			t.Errorf("%s: expected score %v, got %v", wantOrder[i], wantScore[i], fused[i].FinalScore())
		}
		if fused[i].Source() != wantSource[i] {
			t.Errorf("%s: expected source %q, got %q", wantOrder[i], wantSource[i], fused[i].Source())
		}
	}
}

func TestFuse_KeepsOriginalSimilarity(t *testing.T) {
	a := makeTask("a", "x", "", nil, nil)
	semantic := []result.Result{result.New(a, 0.9, 0.9, result.SourceSemantic)}

	fused := fuse(semantic, nil, 10)
	if len(fused) != 1 {
		t.Fatalf("expected 1 result, got %d", len(fused))
	}
	if got := fused[0].Similarity(); math.Abs(got-0.9) > scoreEps {
		t.Errorf("similarity must survive fusion untouched, got %v", got)
	}
	if got := fused[0].FinalScore(); math.Abs(got-0.63) > scoreEps {
		t.Errorf("expected weighted score 0.63, got %v", got)
	}
}

func TestFuse_Truncates(t *testing.T) {
	var keyword []result.Result
	for _, id := range []string{"a", "b", "c"} {
		keyword = append(keyword, result.New(makeTask(id, "x", "", nil, nil), 1.0, 1.0, result.SourceKeyword))
	}
	fused := fuse(nil, keyword, 2)
	if len(fused) != 2 {
		t.Fatalf("expected 2 results, got %d", len(fused))
	}
}

func TestSearchHybrid_CombinesMatchers(t *testing.T) {
	// "hit" matches both matchers, "vec" matches only by embedding.
	finder := &mockFinder{tasks: []task.Task{
		makeTask("hit", "Login broken", "", nil, []float32{1, 0}),
		makeTask("vec", "Session expiry", "", nil, []float32{0.8, 0.6}),
	}}
	vec := &mockVectorizer{vec: []float32{1, 0}, ok: true}
	svc := newService(finder, vec, nil)

	q := makeQuery(t, "login", mode.Hybrid, 10)
	results, err := svc.searchHybrid(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// hit: 1.0*0.7 + 3.0*0.3 = 1.6; vec: 0.8*0.7 = 0.56.
	if results[0].Task().ID() != "hit" || results[0].Source() != result.SourceBoth {
		t.Errorf("expected hit/both first, got %s/%s", results[0].Task().ID(), results[0].Source())
	}
	if math.Abs(results[0].FinalScore()-1.6) > scoreEps {
		t.Errorf("expected score 1.6, got %v", results[0].FinalScore())
	}
	if results[1].Task().ID() != "vec" || results[1].Source() != result.SourceSemantic {
		t.Errorf("expected vec/semantic second, got %s/%s", results[1].Task().ID(), results[1].Source())
	}
	if math.Abs(results[1].FinalScore()-0.56) > scoreEps {
		t.Errorf("expected score 0.56, got %v", results[1].FinalScore())
	}
}

func TestSearchHybrid_StoreErrorPropagates(t *testing.T) {
	finder := &mockFinder{err: domain.ErrStoreUnavailable}
	svc := newService(finder, &mockVectorizer{vec: []float32{1, 0}, ok: true}, nil)

	q := makeQuery(t, "login", mode.Hybrid, 10)
	_, err := svc.searchHybrid(context.Background(), &q)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store error, got %v", err)
	}
}
