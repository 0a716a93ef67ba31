// Package firestore implements storage.Storage on top of Cloud Firestore.
//
// Recipes live in one collection keyed by recipe id. Name uniqueness is
// enforced with a second collection whose documents are keyed by a hash of
// the recipe name and written in the same transaction as the recipe.
package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"recipebook/pkg/domain"
	"recipebook/pkg/storage"
)

// Collection names used when Options leaves them empty.
const (
	// DefaultCollection holds one document per recipe, keyed by recipe id.
	DefaultCollection = "recipes"
	// DefaultNamesCollection holds one reservation document per taken name.
	DefaultNamesCollection = "recipeNames"
)

// Options configures the Firestore client. When the FIRESTORE_EMULATOR_HOST
// environment variable is set the client talks to the emulator instead.
type Options struct {
	// ProjectID is the Google Cloud project holding the database.
	ProjectID string
	// CredentialsFile is an optional service account key file.
	CredentialsFile string
	// Collection stores the recipe documents.
	Collection string
	// NamesCollection stores one document per taken recipe name.
	NamesCollection string
}

var _ storage.Storage = (*Firestore)(nil)

// Firestore stores recipes in a Firestore database. Writes run in
// transactions that keep the recipe and its name reservation in step.
type Firestore struct {
	Client *firestore.Client

	collection      string
	namesCollection string
}

// New connects to Firestore.
func New(ctx context.Context, options Options) (*Firestore, error) {
	var opts []option.ClientOption
	if options.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(options.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, options.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create firestore client (project=%s): %w", options.ProjectID, err)
	}

	return NewWithClient(client, options), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *firestore.Client, options Options) *Firestore {
	f := &Firestore{
		Client:          client,
		collection:      options.Collection,
		namesCollection: options.NamesCollection,
	}
	if f.collection == "" {
		f.collection = DefaultCollection
	}
	if f.namesCollection == "" {
		f.namesCollection = DefaultNamesCollection
	}

	return f
}

// Close closes the underlying client.
func (f *Firestore) Close() error {
	if f.Client == nil {
		return nil
	}
	if err := f.Client.Close(); err != nil {
		return fmt.Errorf("could not close firestore client: %w", err)
	}

	return nil
}

func (f *Firestore) col() *firestore.CollectionRef {
	return f.Client.Collection(f.collection)
}

func (f *Firestore) colNames() *firestore.CollectionRef {
	return f.Client.Collection(f.namesCollection)
}

// nameKey maps a recipe name onto a valid document id.
func nameKey(name string) string {
	sum := sha256.Sum256([]byte(name))

	return hex.EncodeToString(sum[:])
}

type fsRecipe struct {
	Name         string    `firestore:"name"`
	Tags         []string  `firestore:"tags"`
	Ingredients  []string  `firestore:"ingredients"`
	Instructions []string  `firestore:"instructions"`
	PublishedAt  time.Time `firestore:"publishedAt"`
}

type fsRecipeName struct {
	RecipeID string `firestore:"recipeId"`
}

func recipeToDoc(r domain.Recipe) fsRecipe {
	return fsRecipe{
		Name:         r.Name().String(),
		Tags:         r.Tags().Values(),
		Ingredients:  r.Ingredients().Values(),
		Instructions: r.Instructions().Values(),
		PublishedAt:  r.PublishedAt(),
	}
}

func docToRecipe(doc *firestore.DocumentSnapshot) (domain.Recipe, error) {
	var raw fsRecipe
	if err := doc.DataTo(&raw); err != nil {
		return domain.Recipe{}, fmt.Errorf("could not decode recipe %s: %w", doc.Ref.ID, err)
	}

	id, err := uuid.Parse(doc.Ref.ID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("recipe document %s has a malformed id: %w", doc.Ref.ID, err)
	}

	return domain.RestoreRecipe(
		domain.RecipeID(id),
		raw.Name,
		raw.Tags,
		raw.Ingredients,
		raw.Instructions,
		raw.PublishedAt,
	)
}

var errNilClient = errors.New("firestore client is nil")
