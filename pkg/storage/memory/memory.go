// Package memory provides an in-process implementation of storage.Storage
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"sync"

	"recipebook/pkg/domain"
	"recipebook/pkg/storage"
)

var _ storage.Storage = (*Memory)(nil)

// Memory keeps recipes in a map guarded by a RWMutex. Recipes are immutable
// values, so they are stored and returned without cloning.
type Memory struct {
	mu      sync.RWMutex
	recipes map[domain.RecipeID]domain.Recipe
	names   map[string]domain.RecipeID
}

// New returns an empty store.
func New() *Memory {
	return &Memory{
		recipes: make(map[domain.RecipeID]domain.Recipe),
		names:   make(map[string]domain.RecipeID),
	}
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func (m *Memory) Create(_ context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	if recipe.ID().IsZero() {
		return domain.Recipe{}, storage.ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[recipe.ID()]; ok {
		return domain.Recipe{}, storage.ErrConflict
	}
	if _, ok := m.names[recipe.Name().String()]; ok {
		return domain.Recipe{}, storage.ErrConflict
	}

	m.recipes[recipe.ID()] = recipe
	m.names[recipe.Name().String()] = recipe.ID()

	return recipe, nil
}

func (m *Memory) FindOne(_ context.Context, criteria storage.RecipeCriteria) (domain.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		best  domain.Recipe
		found bool
	)
	for _, r := range m.recipes {
		if !criteria.Matches(r) {
			continue
		}
		if !found || r.Before(best) {
			best, found = r, true
		}
	}
	if !found {
		return domain.Recipe{}, storage.ErrNotFound
	}

	return best, nil
}

func (m *Memory) FindAll(_ context.Context, criteria storage.RecipeCriteria) ([]domain.Recipe, error) {
	m.mu.RLock()
	out := make([]domain.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		if criteria.Matches(r) {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	storage.SortRecipes(out)

	return out, nil
}

func (m *Memory) Update(_ context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	if recipe.ID().IsZero() {
		return domain.Recipe{}, storage.ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.recipes[recipe.ID()]
	if !ok {
		return domain.Recipe{}, storage.ErrNotFound
	}
	if owner, taken := m.names[recipe.Name().String()]; taken && owner != recipe.ID() {
		return domain.Recipe{}, storage.ErrConflict
	}

	updated := recipe.WithPublishedAt(current.PublishedAt())
	delete(m.names, current.Name().String())
	m.names[updated.Name().String()] = updated.ID()
	m.recipes[updated.ID()] = updated

	return updated, nil
}

func (m *Memory) Delete(_ context.Context, id domain.RecipeID) error {
	if id.IsZero() {
		return storage.ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(m.recipes, id)
	delete(m.names, r.Name().String())

	return nil
}
