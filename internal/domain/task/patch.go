package task

import (
	"fmt"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
)

// Patch is a partial task update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	Tags        *[]string
	Status      *Status
	Severity    *Severity
	AssignedTo  *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Tags == nil &&
		p.Status == nil && p.Severity == nil && p.AssignedTo == nil
}

// ChangesText reports whether the patch touches any field that feeds the
// embedding (title, description, tags).
func (p Patch) ChangesText() bool {
	return p.Title != nil || p.Description != nil || p.Tags != nil
}

// Apply validates and applies the patch, returning the updated task.
// The embedding of the returned task is carried over unchanged; callers that
// change text fields must recompute or invalidate it before persisting.
func (p Patch) Apply(t Task, now time.Time) (Task, error) {
	if p.Title != nil {
		if *p.Title == "" {
			return Task{}, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidTask)
		}
		if len(*p.Title) > MaxTitleLength {
			return Task{}, fmt.Errorf("%w: title too long (max %d)", domain.ErrInvalidTask, MaxTitleLength)
		}
		t.title = *p.Title
	}
	if p.Description != nil {
		if len(*p.Description) > MaxDescriptionSize {
			return Task{}, fmt.Errorf("%w: description too large (max %d bytes)", domain.ErrInvalidTask, MaxDescriptionSize)
		}
		t.description = *p.Description
	}
	if p.Tags != nil {
		t.tags = cloneTags(*p.Tags)
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return Task{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTask, *p.Status)
		}
		t.status = *p.Status
	}
	if p.Severity != nil {
		if !p.Severity.IsValid() {
			return Task{}, fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidTask, *p.Severity)
		}
		t.severity = *p.Severity
	}
	if p.AssignedTo != nil {
		t.assignedTo = *p.AssignedTo
	}
	t.updatedAt = now
	return t, nil
}
