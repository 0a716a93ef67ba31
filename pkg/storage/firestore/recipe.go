package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"recipebook/pkg/domain"
	"recipebook/pkg/storage"
)

// classify maps a request Firestore refused as malformed onto
// storage.ErrInvalidData.
func classify(err error) error {
	if status.Code(err) == codes.InvalidArgument {
		return fmt.Errorf("%w: %s", storage.ErrInvalidData, status.Convert(err).Message())
	}

	return err
}

// validUTF8 reports whether every text field of r can be sent as a
// Firestore string value.
func validUTF8(r domain.Recipe) bool {
	fields := [][]string{
		{r.Name().String()},
		r.Tags().Values(),
		r.Ingredients().Values(),
		r.Instructions().Values(),
	}
	for _, values := range fields {
		for _, v := range values {
			if !utf8.ValidString(v) {
				return false
			}
		}
	}

	return true
}

// Create stores the recipe and reserves its name in one transaction.
func (f *Firestore) Create(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	if f.Client == nil {
		return domain.Recipe{}, errNilClient
	}
	if recipe.ID().IsZero() {
		return domain.Recipe{}, storage.ErrInvalidData
	}
	if !validUTF8(recipe) {
		return domain.Recipe{}, fmt.Errorf("%w: text must be valid UTF-8", storage.ErrInvalidData)
	}
	// Firestore timestamps carry microseconds.
	recipe = recipe.WithPublishedAt(recipe.PublishedAt().Truncate(time.Microsecond))

	ref := f.col().Doc(recipe.ID().String())
	nameRef := f.colNames().Doc(nameKey(recipe.Name().String()))

	err := f.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(nameRef); err == nil {
			return storage.ErrConflict
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(ref, recipeToDoc(recipe)); err != nil {
			return err
		}

		return tx.Create(nameRef, fsRecipeName{RecipeID: recipe.ID().String()})
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) || status.Code(err) == codes.AlreadyExists {
			return domain.Recipe{}, storage.ErrConflict
		}

		return domain.Recipe{}, fmt.Errorf("could not store recipe into firestore: %w", classify(err))
	}

	return recipe, nil
}

// FindOne returns the earliest published recipe matching c.
func (f *Firestore) FindOne(ctx context.Context, c storage.RecipeCriteria) (domain.Recipe, error) {
	recipes, err := f.FindAll(ctx, c)
	if err != nil {
		return domain.Recipe{}, err
	}
	if len(recipes) == 0 {
		return domain.Recipe{}, storage.ErrNotFound
	}

	return recipes[0], nil
}

// FindAll narrows the candidates with a single indexed condition and applies
// the rest of the criteria in memory, since Firestore allows only one
// array-contains clause per query.
func (f *Firestore) FindAll(ctx context.Context, c storage.RecipeCriteria) ([]domain.Recipe, error) {
	if f.Client == nil {
		return nil, errNilClient
	}

	if !c.ID.IsZero() {
		return f.findByID(ctx, c)
	}

	q := f.col().Query
	switch {
	case c.Name != "":
		q = q.Where("name", "==", c.Name)
	case len(c.Tags) > 0:
		q = q.Where("tags", "array-contains", c.Tags[0])
	case len(c.Ingredients) > 0:
		q = q.Where("ingredients", "array-contains", c.Ingredients[0])
	case len(c.Instructions) > 0:
		q = q.Where("instructions", "array-contains", c.Instructions[0])
	}

	it := q.Documents(ctx)
	defer it.Stop()

	out := make([]domain.Recipe, 0)
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not list recipes from firestore: %w", err)
		}

		r, err := docToRecipe(doc)
		if err != nil {
			return nil, err
		}
		if c.Matches(r) {
			out = append(out, r)
		}
	}

	storage.SortRecipes(out)

	return out, nil
}

func (f *Firestore) findByID(ctx context.Context, c storage.RecipeCriteria) ([]domain.Recipe, error) {
	snap, err := f.col().Doc(c.ID.String()).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return []domain.Recipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not fetch recipe from firestore: %w", err)
	}

	r, err := docToRecipe(snap)
	if err != nil {
		return nil, err
	}
	if !c.Matches(r) {
		return []domain.Recipe{}, nil
	}

	return []domain.Recipe{r}, nil
}

// Update replaces the stored recipe keeping its publication time. A rename
// moves the name reservation in the same transaction.
func (f *Firestore) Update(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	if f.Client == nil {
		return domain.Recipe{}, errNilClient
	}
	if recipe.ID().IsZero() {
		return domain.Recipe{}, storage.ErrInvalidData
	}
	if !validUTF8(recipe) {
		return domain.Recipe{}, fmt.Errorf("%w: text must be valid UTF-8", storage.ErrInvalidData)
	}

	ref := f.col().Doc(recipe.ID().String())
	var updated domain.Recipe

	err := f.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := docToRecipe(snap)
		if err != nil {
			return err
		}

		oldName := current.Name().String()
		newName := recipe.Name().String()
		newNameRef := f.colNames().Doc(nameKey(newName))
		if oldName != newName {
			owner, err := tx.Get(newNameRef)
			switch {
			case err == nil:
				var n fsRecipeName
				if err := owner.DataTo(&n); err != nil {
					return err
				}
				if n.RecipeID != recipe.ID().String() {
					return storage.ErrConflict
				}
			case status.Code(err) != codes.NotFound:
				return err
			}
		}

		updated = recipe.WithPublishedAt(current.PublishedAt())
		if err := tx.Set(ref, recipeToDoc(updated)); err != nil {
			return err
		}
		if oldName == newName {
			return nil
		}
		if err := tx.Delete(f.colNames().Doc(nameKey(oldName))); err != nil {
			return err
		}

		return tx.Set(newNameRef, fsRecipeName{RecipeID: recipe.ID().String()})
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrConflict) {
			return domain.Recipe{}, err
		}

		return domain.Recipe{}, fmt.Errorf("could not update recipe in firestore: %w", classify(err))
	}

	return updated, nil
}

// Delete removes the recipe and releases its name.
func (f *Firestore) Delete(ctx context.Context, id domain.RecipeID) error {
	if f.Client == nil {
		return errNilClient
	}
	if id.IsZero() {
		return storage.ErrInvalidData
	}

	ref := f.col().Doc(id.String())

	err := f.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var raw fsRecipe
		if err := snap.DataTo(&raw); err != nil {
			return err
		}

		if err := tx.Delete(ref); err != nil {
			return err
		}

		return tx.Delete(f.colNames().Doc(nameKey(raw.Name)))
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}

		return fmt.Errorf("could not delete recipe in firestore: %w", err)
	}

	return nil
}
