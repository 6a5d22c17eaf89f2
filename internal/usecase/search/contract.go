package search

import (
	"context"

	"github.com/taskhive/taskhive/internal/domain/task"
)

// TaskFinder reads tasks from the store, newest first.
type TaskFinder interface {
	Find(ctx context.Context, f task.Filter) ([]task.Task, error)
}

// Vectorizer embeds query text. ok=false signals the embedding capability
// is unavailable or encoding failed; it is a degrade signal, never an error.
type Vectorizer interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, bool)
}

// Assistant completes chat prompts for query enhancement. It is optional;
// the service treats a nil Assistant as permanently unavailable.
type Assistant interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
