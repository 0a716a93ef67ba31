package firestore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"recipebook/pkg/storage"
	fsstorage "recipebook/pkg/storage/firestore"
	"recipebook/pkg/storage/storagetest"
)

const testProject = "recipebook-test"

func startEmulator(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "gcr.io/google.com/cloudsdktool/google-cloud-cli:emulators",
		ExposedPorts: []string{"8080/tcp"},
		Cmd: []string{
			"gcloud", "emulators", "firestore", "start",
			"--host-port=0.0.0.0:8080",
			"--project=" + testProject,
		},
		WaitingFor: wait.ForLog("Dev App Server is now running").WithStartupTimeout(2 * time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("could not start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("could not get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "8080")
	if err != nil {
		return nil, "", fmt.Errorf("could not get mapped port: %w", err)
	}

	return container, fmt.Sprintf("%s:%d", host, port.Int()), nil
}

func setupEmulator(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping firestore integration test in short mode")
	}
	ctx := context.Background()

	container, addr, err := startEmulator(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	t.Setenv("FIRESTORE_EMULATOR_HOST", addr)
}

// newStore isolates every caller in its own pair of collections.
func newStore(t *testing.T) *fsstorage.Firestore {
	t.Helper()
	suffix := uuid.NewString()

	f, err := fsstorage.New(context.Background(), fsstorage.Options{
		ProjectID:       testProject,
		Collection:      "recipes-" + suffix,
		NamesCollection: "recipeNames-" + suffix,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func TestFirestore_Recipes(t *testing.T) {
	setupEmulator(t)

	storagetest.Run(t, func(t *testing.T) storage.RecipeRepository {
		t.Helper()

		return newStore(t)
	})
}

func TestFirestore_NameReservation(t *testing.T) {
	setupEmulator(t)
	f := newStore(t)
	ctx := context.Background()

	r, err := f.Create(ctx, storagetest.Recipe(t, "Soup"))
	require.NoError(t, err)

	_, err = f.Create(ctx, storagetest.Recipe(t, "Soup"))
	require.ErrorIs(t, err, storage.ErrConflict)

	require.NoError(t, f.Delete(ctx, r.ID()))
	_, err = f.Create(ctx, storagetest.Recipe(t, "Soup"))
	require.NoError(t, err)
}

func TestFirestore_FindAllNarrowsOnLaterFields(t *testing.T) {
	setupEmulator(t)
	f := newStore(t)
	ctx := context.Background()

	_, err := f.Create(ctx, storagetest.Recipe(t, "Curry", "main", "spicy"))
	require.NoError(t, err)
	_, err = f.Create(ctx, storagetest.Recipe(t, "Stew", "main"))
	require.NoError(t, err)

	got, err := f.FindAll(ctx, storage.RecipeCriteria{Tags: []string{"main", "spicy"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Curry", got[0].Name().String())

	got, err = f.FindAll(ctx, storage.RecipeCriteria{Ingredients: []string{"salt"}, Tags: []string{"main"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestFirestore_NilClient(t *testing.T) {
	f := fsstorage.NewWithClient(nil, fsstorage.Options{})

	_, err := f.FindAll(context.Background(), storage.RecipeCriteria{})
	require.Error(t, err)
	require.NoError(t, f.Close())
}
