// Package storage defines the persistence capability the application relies on.
// It abstracts the storage technology so that different backends (Firestore,
// PostgreSQL, an in-process map) can provide concrete implementations.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"

	"recipebook/pkg/domain"
)

// Repository is the storage contract for an entity type T identified by ID
// and looked up with criteria C.
//
// Implementations report failures with the sentinels in errors.go, matched
// with errors.Is. Any other error is an unexpected backend failure.
type Repository[T any, ID comparable, C any] interface {
	// Create persists a new entity and returns it as stored.
	// Errors: ErrInvalidData, ErrConflict.
	Create(ctx context.Context, entity T) (T, error)
	// FindOne returns exactly one entity matching criteria.
	// Errors: ErrNotFound when nothing matches.
	FindOne(ctx context.Context, criteria C) (T, error)
	// FindAll returns every entity matching criteria. No match is an empty,
	// non-nil slice.
	FindAll(ctx context.Context, criteria C) ([]T, error)
	// Update replaces the stored entity sharing entity's id and returns the
	// stored result.
	// Errors: ErrInvalidData, ErrNotFound, ErrConflict.
	Update(ctx context.Context, entity T) (T, error)
	// Delete removes the entity with the given id.
	// Errors: ErrInvalidData, ErrNotFound.
	Delete(ctx context.Context, id ID) error
}

// RecipeRepository is the Repository of recipes.
//
// All shipped backends agree on the following:
//   - FindOne with several matches returns the one published first, ties
//     broken by the smaller id.
//   - FindAll returns matches ordered the same way.
//   - Update keeps the stored publication time.
//   - Recipe names are unique; a duplicate is reported as ErrConflict.
type RecipeRepository interface {
	Repository[domain.Recipe, domain.RecipeID, RecipeCriteria]
}

// Storage is a RecipeRepository bound to resources that must be released.
type Storage interface {
	RecipeRepository

	// Close releases any resources held by the storage implementation (e.g. the
	// underlying connection pool). After Close, the instance should not be used.
	Close() error
}
