package domain

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"

	"recipebook/pkg/serrors"
)

// RecipeID uniquely identifies a recipe.
// It wraps uuid.UUID to provide type safety at the domain layer. The zero
// value means "no id".
type RecipeID uuid.UUID

// NewRecipeID returns a fresh time-ordered id.
func NewRecipeID() (RecipeID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return RecipeID{}, fmt.Errorf("could not generate recipe id: %w", err)
	}

	return RecipeID(id), nil
}

// ParseRecipeID parses the canonical textual form of an id. Empty or
// malformed input is reported as invalid data.
func ParseRecipeID(s string) (RecipeID, error) {
	if s == "" {
		return RecipeID{}, serrors.With(serrors.ErrInvalidData, "a recipe id is required")
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return RecipeID{}, serrors.Wrap(serrors.ErrInvalidData, err, "malformed recipe id %q", s)
	}

	return RecipeID(id), nil
}

// IsZero reports whether the id is unset.
func (id RecipeID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

func (id RecipeID) String() string { return uuid.UUID(id).String() }

// Compare orders ids by their byte representation, which for UUIDv7 is
// creation order.
func (id RecipeID) Compare(o RecipeID) int {
	return bytes.Compare(id[:], o[:])
}

// Recipe is the aggregate root of the domain. It is immutable: updates are
// modelled as building a new Recipe and replacing the stored one by id.
type Recipe struct {
	id           RecipeID
	name         RecipeName
	tags         RecipeTags
	ingredients  RecipeIngredients
	instructions RecipeInstructions
	publishedAt  time.Time
}

// NewRecipe validates the raw fields in the order name, tags, ingredients,
// instructions and reports the first failure. On success the recipe gets a
// fresh id and the current time as its publication time.
func NewRecipe(name string, tags, ingredients, instructions []string) (Recipe, error) {
	r, err := build(name, tags, ingredients, instructions)
	if err != nil {
		return Recipe{}, err
	}

	r.id, err = NewRecipeID()
	if err != nil {
		return Recipe{}, err
	}
	r.publishedAt = time.Now().UTC()

	return r, nil
}

// RestoreRecipe rebuilds a recipe read back from storage. It runs the same
// validation as NewRecipe but keeps the stored identity and timestamp.
func RestoreRecipe(
	id RecipeID,
	name string,
	tags, ingredients, instructions []string,
	publishedAt time.Time,
) (Recipe, error) {
	r, err := build(name, tags, ingredients, instructions)
	if err != nil {
		return Recipe{}, err
	}
	r.id = id
	r.publishedAt = publishedAt.UTC()

	return r, nil
}

func build(name string, tags, ingredients, instructions []string) (Recipe, error) {
	n, err := NewRecipeName(name)
	if err != nil {
		return Recipe{}, err
	}
	t, err := NewRecipeTags(tags)
	if err != nil {
		return Recipe{}, err
	}
	ing, err := NewRecipeIngredients(ingredients)
	if err != nil {
		return Recipe{}, err
	}
	ins, err := NewRecipeInstructions(instructions)
	if err != nil {
		return Recipe{}, err
	}

	return Recipe{name: n, tags: t, ingredients: ing, instructions: ins}, nil
}

// WithID returns a copy of the recipe bound to id.
func (r Recipe) WithID(id RecipeID) Recipe {
	r.id = id

	return r
}

// WithPublishedAt returns a copy of the recipe carrying the given
// publication time.
func (r Recipe) WithPublishedAt(t time.Time) Recipe {
	r.publishedAt = t.UTC()

	return r
}

func (r Recipe) ID() RecipeID                     { return r.id }
func (r Recipe) Name() RecipeName                 { return r.name }
func (r Recipe) Tags() RecipeTags                 { return r.tags }
func (r Recipe) Ingredients() RecipeIngredients   { return r.ingredients }
func (r Recipe) Instructions() RecipeInstructions { return r.instructions }
func (r Recipe) PublishedAt() time.Time           { return r.publishedAt }

// Equal reports whether both recipes have the same identity and content.
func (r Recipe) Equal(o Recipe) bool {
	return r.id == o.id &&
		r.name.Equal(o.name) &&
		r.tags.Equal(o.tags) &&
		r.ingredients.Equal(o.ingredients) &&
		r.instructions.Equal(o.instructions) &&
		r.publishedAt.Equal(o.publishedAt)
}

// Before orders recipes by publication time, then by id.
func (r Recipe) Before(o Recipe) bool {
	if !r.publishedAt.Equal(o.publishedAt) {
		return r.publishedAt.Before(o.publishedAt)
	}

	return r.id.Compare(o.id) < 0
}
