// Package storagetest holds a behavioural test suite every
// storage.RecipeRepository implementation is expected to pass.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"recipebook/pkg/domain"
	"recipebook/pkg/storage"
)

// Factory returns an empty repository for a single subtest.
type Factory func(t *testing.T) storage.RecipeRepository

// Recipe builds a valid recipe with the given name and tags.
func Recipe(t testing.TB, name string, tags ...string) domain.Recipe {
	t.Helper()
	if len(tags) == 0 {
		tags = []string{"main"}
	}
	r, err := domain.NewRecipe(name, tags, []string{"salt", "pepper"}, []string{"mix", "cook"})
	require.NoError(t, err)

	return r
}

func restore(t testing.TB, id string, name string, at time.Time) domain.Recipe {
	t.Helper()
	r, err := domain.RestoreRecipe(
		domain.RecipeID(uuid.MustParse(id)),
		name,
		[]string{"main"},
		[]string{"salt"},
		[]string{"mix"},
		at,
	)
	require.NoError(t, err)

	return r
}

func requireSameRecipe(t testing.TB, want, got domain.Recipe) {
	t.Helper()
	require.Equal(t, want.ID(), got.ID())
	require.Equal(t, want.Name().String(), got.Name().String())
	require.Equal(t, want.Tags().Values(), got.Tags().Values())
	require.Equal(t, want.Ingredients().Values(), got.Ingredients().Values())
	require.Equal(t, want.Instructions().Values(), got.Instructions().Values())
	require.WithinDuration(t, want.PublishedAt(), got.PublishedAt(), time.Millisecond)
}

func names(recipes []domain.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Name().String())
	}

	return out
}

// Run executes the suite. newRepo is called once per subtest.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("CreateAndFindByID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		r := Recipe(t, "Oregano Marinated Chicken", "main", "chicken")
		stored, err := repo.Create(ctx, r)
		require.NoError(t, err)
		requireSameRecipe(t, r, stored)

		got, err := repo.FindOne(ctx, storage.RecipeCriteria{ID: r.ID()})
		require.NoError(t, err)
		requireSameRecipe(t, r, got)
	})

	t.Run("CreateDuplicateName", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, Recipe(t, "Soup"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, Recipe(t, "Soup"))
		require.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("FindOneNotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindOne(context.Background(), storage.RecipeCriteria{ID: Recipe(t, "x").ID()})
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = repo.FindOne(context.Background(), storage.RecipeCriteria{Name: "missing"})
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("FindOneTieBreak", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

		later := restore(t, "01890000-0000-7000-8000-000000000001", "Later", at.Add(time.Hour))
		second := restore(t, "01890000-0000-7000-8000-000000000003", "Second", at)
		first := restore(t, "01890000-0000-7000-8000-000000000002", "First", at)
		for _, r := range []domain.Recipe{later, second, first} {
			_, err := repo.Create(ctx, r)
			require.NoError(t, err)
		}

		got, err := repo.FindOne(ctx, storage.RecipeCriteria{Tags: []string{"main"}})
		require.NoError(t, err)
		require.Equal(t, "First", got.Name().String())
	})

	t.Run("FindAllFilters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, r := range []domain.Recipe{
			Recipe(t, "Chicken Curry", "main", "chicken", "spicy"),
			Recipe(t, "Grilled Chicken", "main", "chicken"),
			Recipe(t, "Lemon Tart", "dessert"),
		} {
			_, err := repo.Create(ctx, r)
			require.NoError(t, err)
		}

		all, err := repo.FindAll(ctx, storage.RecipeCriteria{})
		require.NoError(t, err)
		require.Equal(t, []string{"Chicken Curry", "Grilled Chicken", "Lemon Tart"}, names(all))

		chicken, err := repo.FindAll(ctx, storage.RecipeCriteria{Tags: []string{"chicken", "main"}})
		require.NoError(t, err)
		require.Equal(t, []string{"Chicken Curry", "Grilled Chicken"}, names(chicken))

		spicy, err := repo.FindAll(ctx, storage.RecipeCriteria{
			Tags:         []string{"spicy"},
			Ingredients:  []string{"salt"},
			Instructions: []string{"cook"},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"Chicken Curry"}, names(spicy))

		byName, err := repo.FindAll(ctx, storage.RecipeCriteria{Name: "Lemon Tart"})
		require.NoError(t, err)
		require.Equal(t, []string{"Lemon Tart"}, names(byName))

		none, err := repo.FindAll(ctx, storage.RecipeCriteria{Tags: []string{"vegan"}})
		require.NoError(t, err)
		require.NotNil(t, none)
		require.Empty(t, none)
	})

	t.Run("Update", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		orig, err := repo.Create(ctx, Recipe(t, "Soup", "starter"))
		require.NoError(t, err)

		candidate := Recipe(t, "Tomato Soup", "starter", "vegan")
		updated, err := repo.Update(ctx, candidate.WithID(orig.ID()))
		require.NoError(t, err)
		require.Equal(t, orig.ID(), updated.ID())
		require.Equal(t, "Tomato Soup", updated.Name().String())
		require.Equal(t, []string{"starter", "vegan"}, updated.Tags().Values())
		require.WithinDuration(t, orig.PublishedAt(), updated.PublishedAt(), time.Millisecond,
			"publication time is immutable")

		got, err := repo.FindOne(ctx, storage.RecipeCriteria{ID: orig.ID()})
		require.NoError(t, err)
		require.Equal(t, "Tomato Soup", got.Name().String())

		_, err = repo.FindOne(ctx, storage.RecipeCriteria{Name: "Soup"})
		require.ErrorIs(t, err, storage.ErrNotFound, "old name must be released")

		_, err = repo.Create(ctx, Recipe(t, "Soup"))
		require.NoError(t, err, "old name can be reused")
	})

	t.Run("UpdateKeepsOwnName", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		orig, err := repo.Create(ctx, Recipe(t, "Soup", "starter"))
		require.NoError(t, err)

		_, err = repo.Update(ctx, Recipe(t, "Soup", "main").WithID(orig.ID()))
		require.NoError(t, err)
	})

	t.Run("UpdateNotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Update(context.Background(), Recipe(t, "Ghost"))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateNameConflict", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, Recipe(t, "Soup"))
		require.NoError(t, err)
		salad, err := repo.Create(ctx, Recipe(t, "Salad"))
		require.NoError(t, err)

		_, err = repo.Update(ctx, Recipe(t, "Soup").WithID(salad.ID()))
		require.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		r, err := repo.Create(ctx, Recipe(t, "Soup"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, r.ID()))
		_, err = repo.FindOne(ctx, storage.RecipeCriteria{ID: r.ID()})
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.ErrorIs(t, repo.Delete(ctx, r.ID()), storage.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, domain.RecipeID{}), storage.ErrInvalidData)

		_, err = repo.Create(ctx, Recipe(t, "Soup"))
		require.NoError(t, err, "name is free again after delete")
	})

	t.Run("ControlCharactersRoundTrip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		r := Recipe(t, "  Tab\tand\nnewline\r ", "\ttag", "line\nbreak")
		stored, err := repo.Create(ctx, r)
		require.NoError(t, err)
		requireSameRecipe(t, r, stored)

		got, err := repo.FindOne(ctx, storage.RecipeCriteria{Name: r.Name().String()})
		require.NoError(t, err)
		requireSameRecipe(t, r, got)
	})

	// Values a backend cannot hold must come back as ErrInvalidData; a
	// backend that can hold them must return them verbatim.
	t.Run("UnstorableText", func(t *testing.T) {
		for _, text := range []string{"nul\x00byte", "bad\xffutf8"} {
			repo := newRepo(t)
			ctx := context.Background()

			r := Recipe(t, text, "main", text)
			stored, err := repo.Create(ctx, r)
			if err != nil {
				require.ErrorIs(t, err, storage.ErrInvalidData, "create %q", text)
			} else {
				requireSameRecipe(t, r, stored)
				got, err := repo.FindOne(ctx, storage.RecipeCriteria{ID: r.ID()})
				require.NoError(t, err)
				requireSameRecipe(t, r, got)
			}

			plain, err := repo.Create(ctx, Recipe(t, "Plain "+uuid.NewString()))
			require.NoError(t, err)
			_, err = repo.Update(ctx, Recipe(t, "Renamed "+uuid.NewString(), text).WithID(plain.ID()))
			if err != nil {
				require.ErrorIs(t, err, storage.ErrInvalidData, "update %q", text)
			}
		}
	})
}
