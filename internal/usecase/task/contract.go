package task

import (
	"context"

	domtask "github.com/taskhive/taskhive/internal/domain/task"
	"github.com/taskhive/taskhive/internal/usecase/vectorizer"
)

// Repository is the storage contract for tasks.
type Repository interface {
	Upsert(ctx context.Context, t *domtask.Task) error
	Get(ctx context.Context, id string) (domtask.Task, error)
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, f domtask.Filter) ([]domtask.Task, error)
	CountByStatus(ctx context.Context) (map[domtask.Status]int, error)
}

// Vectorizer computes task embeddings. ok=false means the embedding stays
// absent; the task is still persisted and findable by keyword search.
type Vectorizer interface {
	EmbedTask(ctx context.Context, t vectorizer.TaskText) ([]float32, bool)
}

// Assistant completes chat prompts for tag generation. Optional; nil
// switches tag generation to the keyword-mapping fallback.
type Assistant interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
