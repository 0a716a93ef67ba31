package storage

import (
	"slices"

	"recipebook/pkg/domain"
)

// RecipeCriteria is a sparse recipe filter. Set fields are ANDed; zero
// fields are unconstrained. List fields match when every requested element
// is present in the recipe's list.
type RecipeCriteria struct {
	ID           domain.RecipeID
	Name         string
	Tags         []string
	Ingredients  []string
	Instructions []string
}

// IsEmpty reports whether the criteria match every recipe.
func (c RecipeCriteria) IsEmpty() bool {
	return c.ID.IsZero() && c.Name == "" &&
		len(c.Tags) == 0 && len(c.Ingredients) == 0 && len(c.Instructions) == 0
}

// Matches evaluates the criteria against r. Backends that cannot express the
// whole filter natively use it to filter candidates in memory.
func (c RecipeCriteria) Matches(r domain.Recipe) bool {
	if !c.ID.IsZero() && c.ID != r.ID() {
		return false
	}
	if c.Name != "" && c.Name != r.Name().String() {
		return false
	}

	return containsAll(r.Tags().Values(), c.Tags) &&
		containsAll(r.Ingredients().Values(), c.Ingredients) &&
		containsAll(r.Instructions().Values(), c.Instructions)
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}

	return true
}

// SortRecipes orders recipes by publication time, then by id.
func SortRecipes(recipes []domain.Recipe) {
	slices.SortFunc(recipes, func(a, b domain.Recipe) int {
		if c := a.PublishedAt().Compare(b.PublishedAt()); c != 0 {
			return c
		}

		return a.ID().Compare(b.ID())
	})
}
