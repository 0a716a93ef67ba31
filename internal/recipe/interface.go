package recipe

import (
	"context"

	"recipebook/pkg/domain"
	"recipebook/pkg/storage"
)

// Service exposes the recipe use cases. Every method returns a *serrors.Error
// of kind ErrInvalidData, ErrConflict, ErrNotFound or ErrUnknown on failure.
//
//go:generate mockgen -package mockrecipe -source=interface.go -destination=mock/mockrecipe.go *
type Service interface {
	Create(ctx context.Context, name string, tags, ingredients, instructions []string) (domain.Recipe, error)
	FindOne(ctx context.Context, id string) (domain.Recipe, error)
	FindAll(ctx context.Context, criteria storage.RecipeCriteria) ([]domain.Recipe, error)
	Update(ctx context.Context, id, name string, tags, ingredients, instructions []string) (domain.Recipe, error)
	DeleteOne(ctx context.Context, id string) error
}
