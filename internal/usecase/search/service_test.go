package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain/search/mode"
	"github.com/taskhive/taskhive/internal/domain/search/query"
	"github.com/taskhive/taskhive/internal/domain/task"
)

// --- Mocks ---

type mockFinder struct {
	mu    sync.Mutex
	tasks []task.Task
	err   error
	calls int
}

func (m *mockFinder) Find(_ context.Context, f task.Filter) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []task.Task
	for i := range m.tasks {
		if f.Matches(&m.tasks[i]) {
			out = append(out, m.tasks[i])
		}
	}
	return out, nil
}

type mockVectorizer struct {
	vec []float32
	ok  bool
}

func (m *mockVectorizer) EmbedQuery(_ context.Context, _ string) ([]float32, bool) {
	return m.vec, m.ok
}

type mockAssistant struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
	called     bool
}

func (m *mockAssistant) Complete(_ context.Context, system, user string) (string, error) {
	m.called = true
	m.lastSystem = system
	m.lastUser = user
	return m.reply, m.err
}

// --- Helpers ---

func makeTask(id, title, description string, tags []string, embedding []float32) task.Task {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return task.Reconstruct(
		id, title, description, tags,
		task.StatusOpen, task.SeverityMedium,
		"", "", now, now, embedding,
	)
}

func makeQuery(t *testing.T, text string, m mode.Mode, limit int) query.Query {
	t.Helper()
	q, err := query.New(text, m, limit, "")
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func newService(finder *mockFinder, vec *mockVectorizer, assistant Assistant) *Service {
	return New(finder, vec, assistant, zap.NewNop())
}

// --- Tests ---

func TestSearch_KeywordMode(t *testing.T) {
	finder := &mockFinder{tasks: []task.Task{
		makeTask("a", "Login fails on mobile", "", nil, nil),
		makeTask("b", "Add dark mode", "", nil, nil),
	}}
	svc := newService(finder, &mockVectorizer{}, nil)

	q := makeQuery(t, "login", mode.Keyword, 10)
	resp, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Task().ID() != "a" {
		t.Errorf("expected task a, got %q", resp.Results[0].Task().ID())
	}
	if resp.EnhancedQuery != "login" {
		t.Errorf("expected enhanced query to echo the original, got %q", resp.EnhancedQuery)
	}
	if resp.Suggestions != nil {
		t.Errorf("keyword mode must not produce suggestions, got %v", resp.Suggestions)
	}
}

func TestSearch_Intelligent_AssistantUnavailable(t *testing.T) {
	finder := &mockFinder{tasks: []task.Task{
		makeTask("a", "Fix login bug", "", []string{"auth"}, nil),
	}}
	svc := newService(finder, &mockVectorizer{}, nil)

	q := makeQuery(t, "login bug", mode.Intelligent, 10)
	resp, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.EnhancedQuery != "login bug" {
		t.Errorf("without an assistant the query must pass through unchanged, got %q", resp.EnhancedQuery)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
}

func TestSearch_Intelligent_UsesEnhancedQuery(t *testing.T) {
	finder := &mockFinder{tasks: []task.Task{
		makeTask("a", "Authentication timeout", "", nil, nil),
	}}
	assistant := &mockAssistant{reply: "login authentication"}
	svc := newService(finder, &mockVectorizer{}, assistant)

	q := makeQuery(t, "login", mode.Intelligent, 10)
	resp, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assistant.called {
		t.Fatal("expected the assistant to be called")
	}
	if resp.EnhancedQuery != "login authentication" {
		t.Errorf("expected enhanced query, got %q", resp.EnhancedQuery)
	}
	// "Authentication timeout" matches only the enhanced text.
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result via the enhanced query, got %d", len(resp.Results))
	}
}

func TestSearch_Intelligent_SuggestionsFromOriginalQuery(t *testing.T) {
	finder := &mockFinder{tasks: []task.Task{
		makeTask("a", "Fix login bug", "", []string{"auth", "backend"}, nil),
	}}
	svc := newService(finder, &mockVectorizer{}, nil)

	q := makeQuery(t, "login bug", mode.Intelligent, 10)
	resp, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{"auth": true, "backend": true, "critical": true}
	if len(resp.Suggestions) != len(want) {
		t.Fatalf("expected %d suggestions, got %v", len(want), resp.Suggestions)
	}
	for _, sug := range resp.Suggestions {
		if !want[sug] {
			t.Errorf("unexpected suggestion %q", sug)
		}
	}
}
