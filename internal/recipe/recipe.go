// Package recipe implements the recipe use cases: each one validates its
// input through the domain, talks to a storage.RecipeRepository and
// translates storage failures into semantic errors. The package keeps no
// state between calls and never retries.
package recipe

import (
	"context"
	"errors"

	"recipebook/pkg/domain"
	"recipebook/pkg/serrors"
	"recipebook/pkg/storage"
)

// service is the concrete implementation of the Service interface.
type service struct {
	// repo is the only source of durable state.
	repo storage.RecipeRepository
}

// New returns a Service backed by repo.
func New(repo storage.RecipeRepository) Service {
	return service{repo: repo}
}

// translate maps a storage error onto a semantic error. Sentinels not
// listed in allowed are reported as unknown failures described by op.
func translate(err error, op string, allowed ...error) error {
	for _, sentinel := range allowed {
		if !errors.Is(err, sentinel) {
			continue
		}
		switch sentinel {
		case storage.ErrNotFound:
			return serrors.Wrap(serrors.ErrNotFound, err, "recipe not found")
		case storage.ErrInvalidData:
			return serrors.Wrap(serrors.ErrInvalidData, err, "the recipe was rejected as invalid")
		case storage.ErrConflict:
			return serrors.Wrap(serrors.ErrConflict, err, "a recipe with this name already exists")
		}
	}

	return serrors.Wrap(serrors.ErrUnknown, err, "%s", op)
}

// Create validates the fields, rejects a name that is already taken and
// stores the new recipe.
func (s service) Create(
	ctx context.Context,
	name string,
	tags, ingredients, instructions []string,
) (domain.Recipe, error) {
	candidate, err := domain.NewRecipe(name, tags, ingredients, instructions)
	if err != nil {
		return domain.Recipe{}, err
	}

	_, err = s.repo.FindOne(ctx, storage.RecipeCriteria{Name: name})
	switch {
	case err == nil:
		return domain.Recipe{}, serrors.With(serrors.ErrConflict, "a recipe with this name already exists")
	case !errors.Is(err, storage.ErrNotFound):
		return domain.Recipe{}, serrors.Wrap(serrors.ErrUnknown, err, "could not check for an existing recipe")
	}

	stored, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return domain.Recipe{}, translate(err, "could not create recipe", storage.ErrInvalidData, storage.ErrConflict)
	}

	return stored, nil
}

// FindOne returns the recipe with the given id. An id that cannot name a
// stored recipe is reported as not found without reaching storage.
func (s service) FindOne(ctx context.Context, id string) (domain.Recipe, error) {
	rid, err := domain.ParseRecipeID(id)
	if err != nil {
		return domain.Recipe{}, serrors.Wrap(serrors.ErrNotFound, err, "recipe not found")
	}

	r, err := s.repo.FindOne(ctx, storage.RecipeCriteria{ID: rid})
	if err != nil {
		return domain.Recipe{}, translate(err, "could not find recipe", storage.ErrNotFound)
	}

	return r, nil
}

// FindAll returns every recipe matching criteria. No match is an empty list.
func (s service) FindAll(ctx context.Context, criteria storage.RecipeCriteria) ([]domain.Recipe, error) {
	recipes, err := s.repo.FindAll(ctx, criteria)
	if err != nil {
		return nil, translate(err, "could not list recipes")
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}

	return recipes, nil
}

// Update replaces the recipe with the given id by a freshly validated one.
func (s service) Update(
	ctx context.Context,
	id, name string,
	tags, ingredients, instructions []string,
) (domain.Recipe, error) {
	if id == "" {
		return domain.Recipe{}, serrors.With(serrors.ErrInvalidData, "cannot update without a target id")
	}
	rid, err := domain.ParseRecipeID(id)
	if err != nil {
		return domain.Recipe{}, err
	}

	candidate, err := domain.NewRecipe(name, tags, ingredients, instructions)
	if err != nil {
		return domain.Recipe{}, err
	}

	updated, err := s.repo.Update(ctx, candidate.WithID(rid))
	if err != nil {
		return domain.Recipe{}, translate(err, "could not update recipe",
			storage.ErrNotFound, storage.ErrInvalidData, storage.ErrConflict)
	}

	return updated, nil
}

// DeleteOne removes the recipe with the given id.
func (s service) DeleteOne(ctx context.Context, id string) error {
	if id == "" {
		return serrors.With(serrors.ErrInvalidData, "cannot delete without a target id")
	}
	rid, err := domain.ParseRecipeID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, rid); err != nil {
		return translate(err, "could not delete recipe", storage.ErrNotFound, storage.ErrInvalidData)
	}

	return nil
}
