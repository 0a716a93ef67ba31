package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"recipebook/pkg/domain"
	"recipebook/pkg/storage"
)

const (
	recipesTable = "recipes"
)

// classify maps constraint violations onto the storage error vocabulary.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.ConstraintName)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation,
		pgerrcode.InvalidTextRepresentation, pgerrcode.StringDataRightTruncationDataException,
		pgerrcode.CharacterNotInRepertoire, pgerrcode.UntranslatableCharacter:
		return fmt.Errorf("%w: %s", storage.ErrInvalidData, pgErr.Message)
	default:
		return err
	}
}

// errUnstorableText is returned for values a text column cannot hold.
var errUnstorableText = fmt.Errorf("%w: text must be valid UTF-8 without NUL bytes", storage.ErrInvalidData)

// storable reports whether every text field of r fits a UTF-8 text column.
// Such values are rejected before they reach the query text, where a NUL
// byte would cut the statement short.
func storable(r domain.Recipe) bool {
	fields := [][]string{
		{r.Name().String()},
		r.Tags().Values(),
		r.Ingredients().Values(),
		r.Instructions().Values(),
	}
	for _, values := range fields {
		for _, v := range values {
			if !utf8.ValidString(v) || strings.ContainsRune(v, 0) {
				return false
			}
		}
	}

	return true
}

func criteriaExpressions(c storage.RecipeCriteria) []exp.Expression {
	var w []exp.Expression
	if !c.ID.IsZero() {
		w = append(w, goqu.I("id").Eq(uuid.UUID(c.ID)))
	}
	if c.Name != "" {
		w = append(w, goqu.I("name").Eq(c.Name))
	}
	if len(c.Tags) > 0 {
		w = append(w, goqu.L("tags @> ?", pq.StringArray(c.Tags)))
	}
	if len(c.Ingredients) > 0 {
		w = append(w, goqu.L("ingredients @> ?", pq.StringArray(c.Ingredients)))
	}
	if len(c.Instructions) > 0 {
		w = append(w, goqu.L("instructions @> ?", pq.StringArray(c.Instructions)))
	}

	return w
}

func (p *PgSQL) selectRecipes(c storage.RecipeCriteria) *goqu.SelectDataset {
	return p.Builder.From(recipesTable).
		Where(criteriaExpressions(c)...).
		Order(goqu.I("published_at").Asc(), goqu.I("id").Asc())
}

// Create inserts a recipe. A taken name is reported as storage.ErrConflict.
func (p *PgSQL) Create(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	if recipe.ID().IsZero() {
		return domain.Recipe{}, storage.ErrInvalidData
	}
	if !storable(recipe) {
		return domain.Recipe{}, errUnstorableText
	}

	var row PgRecipe
	row.FromDomain(recipe)

	var result PgRecipe
	if _, err := p.Builder.Insert(recipesTable).
		Rows(row).
		Returning(&PgRecipe{}).
		Executor().ScanStructContext(ctx, &result); err != nil {
		return domain.Recipe{}, fmt.Errorf("could not store recipe into pg: %w", classify(err))
	}

	return result.ToDomain()
}

// FindOne returns the earliest published recipe matching c.
func (p *PgSQL) FindOne(ctx context.Context, c storage.RecipeCriteria) (domain.Recipe, error) {
	var row PgRecipe
	found, err := p.selectRecipes(c).Limit(1).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("could not fetch recipe from pg: %w", err)
	}
	if !found {
		return domain.Recipe{}, storage.ErrNotFound
	}

	return row.ToDomain()
}

// FindAll returns every recipe matching c ordered by published_at, id.
func (p *PgSQL) FindAll(ctx context.Context, c storage.RecipeCriteria) ([]domain.Recipe, error) {
	var rows []PgRecipe
	if err := p.selectRecipes(c).Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch recipes from pg: %w", err)
	}

	return pgRecipesToDomain(rows)
}

// Update replaces the content of the recipe sharing recipe's id. The stored
// published_at is left untouched.
func (p *PgSQL) Update(ctx context.Context, recipe domain.Recipe) (domain.Recipe, error) {
	if recipe.ID().IsZero() {
		return domain.Recipe{}, storage.ErrInvalidData
	}
	if !storable(recipe) {
		return domain.Recipe{}, errUnstorableText
	}

	var row PgRecipe
	row.FromDomain(recipe)

	var result PgRecipe
	found, err := p.Builder.Update(recipesTable).
		Set(goqu.Record{
			"name":         row.Name,
			"tags":         row.Tags,
			"ingredients":  row.Ingredients,
			"instructions": row.Instructions,
		}).
		Where(goqu.I("id").Eq(row.ID)).
		Returning(&PgRecipe{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("could not update recipe in pg: %w", classify(err))
	}
	if !found {
		return domain.Recipe{}, storage.ErrNotFound
	}

	return result.ToDomain()
}

// Delete removes the recipe with the given id.
func (p *PgSQL) Delete(ctx context.Context, id domain.RecipeID) error {
	if id.IsZero() {
		return storage.ErrInvalidData
	}

	res, err := p.Builder.Delete(recipesTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not delete recipe in pg: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}
