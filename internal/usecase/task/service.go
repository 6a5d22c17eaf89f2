// Package task handles task CRUD with automatic vectorization: every write
// that touches title, description, or tags recomputes the stored embedding
// or drops it, so semantic search never sees a stale vector.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domtask "github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/usecase/vectorizer"
)

// Service handles task CRUD.
type Service struct {
	repo       Repository
	vectorizer Vectorizer
	assistant  Assistant // nil = fallback tag generation
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a task service.
func New(repo Repository, vec Vectorizer, assistant Assistant, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		vectorizer: vec,
		assistant:  assistant,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateInput carries the client-supplied fields for a new task.
type CreateInput struct {
	Title       string
	Description string
	Status      domtask.Status
	Severity    domtask.Severity
	AssignedTo  string
}

// Create builds, tags, vectorizes, and persists a new task.
func (s *Service) Create(ctx context.Context, in CreateInput, userID string) (domtask.Task, error) {
	tags := s.generateTags(ctx, in.Title, in.Description)

	t, err := domtask.New(
		uuid.NewString(), in.Title, in.Description, tags,
		in.Status, in.Severity, userID, in.AssignedTo, s.now().UTC(),
	)
	if err != nil {
		return domtask.Task{}, err
	}

	t = s.vectorize(ctx, t)

	if err := s.repo.Upsert(ctx, &t); err != nil {
		return domtask.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Get returns a task by ID.
func (s *Service) Get(ctx context.Context, id string) (domtask.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns tasks matching the filter, newest first.
func (s *Service) List(ctx context.Context, f domtask.Filter) ([]domtask.Task, error) {
	tasks, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a patch. When the patch touches title, description, or
// tags the embedding is recomputed; if vectorization is unavailable the
// embedding is invalidated rather than left stale.
func (s *Service) Update(ctx context.Context, id string, p domtask.Patch) (domtask.Task, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domtask.Task{}, fmt.Errorf("get task: %w", err)
	}

	updated, err := p.Apply(current, s.now().UTC())
	if err != nil {
		return domtask.Task{}, err
	}

	if p.ChangesText() {
		updated = s.vectorize(ctx, updated)
	}

	if err := s.repo.Upsert(ctx, &updated); err != nil {
		return domtask.Task{}, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Stats holds per-status task counts.
type Stats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

// Stats aggregates task counts by status.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("task stats: %w", err)
	}

	st := Stats{
		Open:       counts[domtask.StatusOpen],
		InProgress: counts[domtask.StatusInProgress],
		Resolved:   counts[domtask.StatusResolved],
		Closed:     counts[domtask.StatusClosed],
	}
	st.Total = st.Open + st.InProgress + st.Resolved + st.Closed
	return st, nil
}

// vectorize recomputes the embedding for the task's current text. On
// failure the embedding is set absent, which keeps the stale-vector
// invariant at the cost of dropping the task from semantic results.
func (s *Service) vectorize(ctx context.Context, t domtask.Task) domtask.Task {
	vec, ok := s.vectorizer.EmbedTask(ctx, vectorizer.TaskText{
		Title:       t.Title(),
		Description: t.Description(),
		Tags:        t.Tags(),
	})
	if !ok {
		s.logger.Debug("task embedding unavailable", zap.String("task_id", t.ID()))
		return t.WithEmbedding(nil)
	}
	return t.WithEmbedding(vec)
}
