package storage

import "errors"

// Errors returned by storage implementations. Anything else is treated as an
// unknown failure by callers.
var (
	// ErrNotFound is returned when no entity matches an id or criteria.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidData is returned when the backend rejects the entity or id as malformed.
	ErrInvalidData = errors.New("invalid data")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)
