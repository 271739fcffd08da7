package store

import "errors"

// Error categories returned by store operations. They are wrapped with
// context and checked by callers with errors.Is.
var (
	// ErrNotFound marks a reference to a nonexistent record.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("already exists")
	// ErrValidation marks malformed or missing required input.
	ErrValidation = errors.New("invalid input")
	// ErrFormat marks a malformed import document.
	ErrFormat = errors.New("malformed snapshot")
)
