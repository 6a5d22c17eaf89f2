package domain

import "errors"

var (
	// ErrTaskNotFound signals a missing task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidTask signals a task that failed validation.
	ErrInvalidTask = errors.New("invalid task")
	// ErrInvalidQuery signals a malformed search query (empty text, bad mode, bad limit).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrStoreUnavailable signals that the task store cannot be reached.
	// This is the only condition that surfaces as a hard search failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)
