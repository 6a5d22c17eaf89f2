package task

import (
	"fmt"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
)

// MaxTitleLength and MaxDescriptionSize bound task text fields.
const (
	MaxTitleLength     = 300
	MaxDescriptionSize = 65536 // 64KB
)

// Task is the task aggregate (immutable value object).
// The embedding is a derived representation of title+description+tags;
// it is recomputed or dropped whenever those fields change, never left stale.
type Task struct {
	id          string
	title       string
	description string
	tags        []string
	status      Status
	severity    Severity
	createdBy   string
	assignedTo  string
	createdAt   time.Time
	updatedAt   time.Time
	embedding   []float32
}

// New validates and creates a Task. Empty status defaults to open,
// empty severity to medium. The embedding starts absent.
func New(
	id, title, description string, tags []string,
	status Status, severity Severity,
	createdBy, assignedTo string, now time.Time,
) (Task, error) {
	if id == "" {
		return Task{}, fmt.Errorf("%w: id is required", domain.ErrInvalidTask)
	}
	if title == "" {
		return Task{}, fmt.Errorf("%w: title is required", domain.ErrInvalidTask)
	}
	if len(title) > MaxTitleLength {
		return Task{}, fmt.Errorf("%w: title too long (max %d)", domain.ErrInvalidTask, MaxTitleLength)
	}
	if len(description) > MaxDescriptionSize {
		return Task{}, fmt.Errorf("%w: description too large (max %d bytes)", domain.ErrInvalidTask, MaxDescriptionSize)
	}
	if status == "" {
		status = StatusOpen
	}
	if !status.IsValid() {
		return Task{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTask, status)
	}
	if severity == "" {
		severity = SeverityMedium
	}
	if !severity.IsValid() {
		return Task{}, fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidTask, severity)
	}

	return Task{
		id:          id,
		title:       title,
		description: description,
		tags:        cloneTags(tags),
		status:      status,
		severity:    severity,
		createdBy:   createdBy,
		assignedTo:  assignedTo,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates a Task without validation (storage hydration).
func Reconstruct(
	id, title, description string, tags []string,
	status Status, severity Severity,
	createdBy, assignedTo string,
	createdAt, updatedAt time.Time,
	embedding []float32,
) Task {
	return Task{
		id: id, title: title, description: description, tags: tags,
		status: status, severity: severity,
		createdBy: createdBy, assignedTo: assignedTo,
		createdAt: createdAt, updatedAt: updatedAt,
		embedding: embedding,
	}
}

// ID returns the task identifier.
func (t *Task) ID() string { return t.id }

// Title returns the task title.
func (t *Task) Title() string { return t.title }

// Description returns the task description (may contain markup).
func (t *Task) Description() string { return t.description }

// Tags returns the task tags.
func (t *Task) Tags() []string { return t.tags }

// Status returns the workflow state.
func (t *Task) Status() Status { return t.status }

// Severity returns the impact level.
func (t *Task) Severity() Severity { return t.severity }

// CreatedBy returns the owner identifier.
func (t *Task) CreatedBy() string { return t.createdBy }

// AssignedTo returns the assignee identifier.
func (t *Task) AssignedTo() string { return t.assignedTo }

// CreatedAt returns the creation timestamp.
func (t *Task) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns the last modification timestamp.
func (t *Task) UpdatedAt() time.Time { return t.updatedAt }

// Embedding returns the stored embedding vector, or nil when absent.
func (t *Task) Embedding() []float32 { return t.embedding }

// HasEmbedding reports whether a vector representation is stored.
func (t *Task) HasEmbedding() bool { return len(t.embedding) > 0 }

// WithEmbedding returns a copy with the given vector set.
// Passing nil invalidates the embedding.
func (t *Task) WithEmbedding(v []float32) Task {
	c := *t
	c.embedding = v
	return c
}

func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	c := make([]string, len(tags))
	copy(c, tags)
	return c
}
