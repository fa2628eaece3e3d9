package goals

import "errors"

var (
	// ErrInvalidInput is returned for an empty title, no usable tasks, or an unknown category or timeframe
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfRange is returned when a task index does not address an existing task
	ErrOutOfRange = errors.New("task index out of range")
	// ErrNotFound is returned when a goal id is unknown to the store
	ErrNotFound = errors.New("goal not found")
)
