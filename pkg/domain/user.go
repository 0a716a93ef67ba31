package domain

import "github.com/google/uuid"

// UserID identifies the caller of an authenticated request.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID

// String returns the canonical textual form of the id.
func (id UserID) String() string { return uuid.UUID(id).String() }
