package recipe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"recipebook/internal/recipe"
	"recipebook/pkg/domain"
	"recipebook/pkg/serrors"
	"recipebook/pkg/storage"
	"recipebook/pkg/storage/memory"
	mockstorage "recipebook/pkg/storage/mock"
)

var (
	tags         = []string{"main", "chicken"}
	ingredients  = []string{"4 chicken breasts"}
	instructions = []string{"Marinate for 30 minutes"}
)

func newTestService(t *testing.T) (*mockstorage.MockRecipeRepository, recipe.Service) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mockstorage.NewMockRecipeRepository(ctrl)

	return repo, recipe.New(repo)
}

func requireKind(t *testing.T, err error, kind serrors.Kind) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	require.Equal(t, kind, serrors.KindOf(err))
}

func TestService_Create(t *testing.T) {
	repo, s := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().FindOne(gomock.Any(), storage.RecipeCriteria{Name: "Oregano Marinated Chicken"}).
		Return(domain.Recipe{}, storage.ErrNotFound)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r domain.Recipe) (domain.Recipe, error) {
			return r, nil
		})

	r, err := s.Create(ctx, "Oregano Marinated Chicken", tags, ingredients, instructions)
	require.NoError(t, err)
	require.Equal(t, "Oregano Marinated Chicken", r.Name().String())
	require.Equal(t, tags, r.Tags().Values())
	require.Equal(t, ingredients, r.Ingredients().Values())
	require.Equal(t, instructions, r.Instructions().Values())
	require.False(t, r.ID().IsZero())
	require.False(t, r.PublishedAt().IsZero())
}

func TestService_Create_InvalidDataBeforeStorage(t *testing.T) {
	_, s := newTestService(t)

	tests := []struct {
		name   string
		rname  string
		tags   []string
		reason string
	}{
		{"empty name", "", tags, "a recipe must have a name"},
		{"empty name wins over empty tags", "", nil, "a recipe must have a name"},
		{"empty tags", "Soup", nil, "a recipe must have at least one tag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tt.rname, tt.tags, ingredients, instructions)
			requireKind(t, err, serrors.ErrInvalidData)
			require.EqualError(t, err, tt.reason)
		})
	}
}

func TestService_Create_NameTaken(t *testing.T) {
	repo, s := newTestService(t)
	existing, err := domain.NewRecipe("Soup", tags, ingredients, instructions)
	require.NoError(t, err)

	repo.EXPECT().FindOne(gomock.Any(), storage.RecipeCriteria{Name: "Soup"}).Return(existing, nil)

	_, err = s.Create(context.Background(), "Soup", tags, ingredients, instructions)
	requireKind(t, err, serrors.ErrConflict)
	require.EqualError(t, err, "a recipe with this name already exists")
}

func TestService_Create_StorageErrors(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name      string
		findErr   error
		createErr error
		want      serrors.Kind
	}{
		{"existence check fails", boom, nil, serrors.ErrUnknown},
		{"create rejects data", storage.ErrNotFound, storage.ErrInvalidData, serrors.ErrInvalidData},
		{"create loses the name race", storage.ErrNotFound, storage.ErrConflict, serrors.ErrConflict},
		{"create fails", storage.ErrNotFound, boom, serrors.ErrUnknown},
		{"create reports not found", storage.ErrNotFound, storage.ErrNotFound, serrors.ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, s := newTestService(t)
			repo.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(domain.Recipe{}, tt.findErr)
			if tt.createErr != nil {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Recipe{}, tt.createErr)
			}

			_, err := s.Create(context.Background(), "Soup", tags, ingredients, instructions)
			requireKind(t, err, tt.want)
		})
	}
}

func TestService_FindOne(t *testing.T) {
	repo, s := newTestService(t)
	r, err := domain.NewRecipe("Soup", tags, ingredients, instructions)
	require.NoError(t, err)

	repo.EXPECT().FindOne(gomock.Any(), storage.RecipeCriteria{ID: r.ID()}).Return(r, nil)

	got, err := s.FindOne(context.Background(), r.ID().String())
	require.NoError(t, err)
	require.True(t, r.Equal(got))
}

func TestService_FindOne_Errors(t *testing.T) {
	id := uuid.Must(uuid.NewV7()).String()

	for name, raw := range map[string]string{
		"empty id":     "",
		"malformed id": "42",
		"nil id":       "00000000-0000-0000-0000-000000000000",
	} {
		t.Run(name, func(t *testing.T) {
			// the mock fails the test on any repository call
			_, s := newTestService(t)
			_, err := s.FindOne(context.Background(), raw)
			requireKind(t, err, serrors.ErrNotFound)
			var se *serrors.Error
			require.ErrorAs(t, err, &se)
			require.Equal(t, "recipe not found", se.Message())
		})
	}

	t.Run("not found", func(t *testing.T) {
		repo, s := newTestService(t)
		repo.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(domain.Recipe{}, storage.ErrNotFound)

		_, err := s.FindOne(context.Background(), id)
		requireKind(t, err, serrors.ErrNotFound)
		require.ErrorIs(t, err, storage.ErrNotFound, "the storage cause is kept")
	})

	t.Run("unknown", func(t *testing.T) {
		repo, s := newTestService(t)
		repo.EXPECT().FindOne(gomock.Any(), gomock.Any()).Return(domain.Recipe{}, context.DeadlineExceeded)

		_, err := s.FindOne(context.Background(), id)
		requireKind(t, err, serrors.ErrUnknown)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestService_FindAll(t *testing.T) {
	criteria := storage.RecipeCriteria{Tags: []string{"vegan"}}

	t.Run("no match is an empty list", func(t *testing.T) {
		repo, s := newTestService(t)
		repo.EXPECT().FindAll(gomock.Any(), criteria).Return(nil, nil)

		got, err := s.FindAll(context.Background(), criteria)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("unknown", func(t *testing.T) {
		repo, s := newTestService(t)
		repo.EXPECT().FindAll(gomock.Any(), criteria).Return(nil, errors.New("boom"))

		_, err := s.FindAll(context.Background(), criteria)
		requireKind(t, err, serrors.ErrUnknown)
	})
}

func TestService_Update(t *testing.T) {
	repo, s := newTestService(t)
	id := domain.RecipeID(uuid.Must(uuid.NewV7()))

	repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r domain.Recipe) (domain.Recipe, error) {
			require.Equal(t, id, r.ID(), "the candidate is bound to the target id")

			return r, nil
		})

	got, err := s.Update(context.Background(), id.String(), "Tomato Soup", tags, ingredients, instructions)
	require.NoError(t, err)
	require.Equal(t, id, got.ID())
	require.Equal(t, "Tomato Soup", got.Name().String())
}

func TestService_Update_Errors(t *testing.T) {
	id := uuid.Must(uuid.NewV7()).String()

	t.Run("empty id is rejected before storage", func(t *testing.T) {
		_, s := newTestService(t)
		_, err := s.Update(context.Background(), "", "Soup", tags, ingredients, instructions)
		requireKind(t, err, serrors.ErrInvalidData)
		require.EqualError(t, err, "cannot update without a target id")
	})

	t.Run("malformed id is rejected before storage", func(t *testing.T) {
		_, s := newTestService(t)
		_, err := s.Update(context.Background(), "nope", "Soup", tags, ingredients, instructions)
		requireKind(t, err, serrors.ErrInvalidData)
	})

	t.Run("invalid fields", func(t *testing.T) {
		_, s := newTestService(t)
		_, err := s.Update(context.Background(), id, "Soup", tags, nil, instructions)
		requireKind(t, err, serrors.ErrInvalidData)
		require.EqualError(t, err, "a recipe must have at least one ingredient")
	})

	for _, tt := range []struct {
		name string
		err  error
		want serrors.Kind
	}{
		{"not found", storage.ErrNotFound, serrors.ErrNotFound},
		{"invalid data", storage.ErrInvalidData, serrors.ErrInvalidData},
		{"conflict", storage.ErrConflict, serrors.ErrConflict},
		{"unknown", errors.New("boom"), serrors.ErrUnknown},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo, s := newTestService(t)
			repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(domain.Recipe{}, tt.err)

			_, err := s.Update(context.Background(), id, "Soup", tags, ingredients, instructions)
			requireKind(t, err, tt.want)
		})
	}
}

func TestService_DeleteOne(t *testing.T) {
	id := domain.RecipeID(uuid.Must(uuid.NewV7()))

	t.Run("ok", func(t *testing.T) {
		repo, s := newTestService(t)
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil)

		require.NoError(t, s.DeleteOne(context.Background(), id.String()))
	})

	t.Run("empty or malformed id", func(t *testing.T) {
		_, s := newTestService(t)
		requireKind(t, s.DeleteOne(context.Background(), ""), serrors.ErrInvalidData)
		requireKind(t, s.DeleteOne(context.Background(), "not-an-id"), serrors.ErrInvalidData)
	})

	for _, tt := range []struct {
		name string
		err  error
		want serrors.Kind
	}{
		{"not found", storage.ErrNotFound, serrors.ErrNotFound},
		{"invalid data", storage.ErrInvalidData, serrors.ErrInvalidData},
		{"unknown", errors.New("boom"), serrors.ErrUnknown},
	} {
		t.Run(tt.name, func(t *testing.T) {
			repo, s := newTestService(t)
			repo.EXPECT().Delete(gomock.Any(), id).Return(tt.err)

			requireKind(t, s.DeleteOne(context.Background(), id.String()), tt.want)
		})
	}
}

// TestService_WithMemory runs the use cases end to end against the in-process store.
func TestService_WithMemory(t *testing.T) {
	s := recipe.New(memory.New())
	ctx := context.Background()

	created, err := s.Create(ctx, "Soup", []string{"starter"}, ingredients, instructions)
	require.NoError(t, err)

	_, err = s.Create(ctx, "Soup", []string{"main"}, ingredients, instructions)
	requireKind(t, err, serrors.ErrConflict)

	found, err := s.FindOne(ctx, created.ID().String())
	require.NoError(t, err)
	require.True(t, created.Equal(found))

	_, err = s.FindOne(ctx, uuid.Must(uuid.NewV7()).String())
	requireKind(t, err, serrors.ErrNotFound)

	_, err = s.Update(ctx, uuid.Must(uuid.NewV7()).String(), "Ghost", tags, ingredients, instructions)
	requireKind(t, err, serrors.ErrNotFound)

	updated, err := s.Update(ctx, created.ID().String(), "Tomato Soup", []string{"starter"}, ingredients, instructions)
	require.NoError(t, err)
	require.True(t, created.PublishedAt().Equal(updated.PublishedAt()))

	all, err := s.FindAll(ctx, storage.RecipeCriteria{Tags: []string{"starter"}})
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, s.DeleteOne(ctx, created.ID().String()))
	requireKind(t, s.DeleteOne(ctx, created.ID().String()), serrors.ErrNotFound)

	none, err := s.FindAll(ctx, storage.RecipeCriteria{})
	require.NoError(t, err)
	require.Empty(t, none)
}
