package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"recipebook/pkg/domain"
)

// PgRecipe is the row shape of the recipes table.
type PgRecipe struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	Tags         pq.StringArray `db:"tags"`
	Ingredients  pq.StringArray `db:"ingredients"`
	Instructions pq.StringArray `db:"instructions"`
	PublishedAt  time.Time      `db:"published_at"`
}

// ToDomain rebuilds the recipe, running the domain validation on the stored values.
func (p *PgRecipe) ToDomain() (domain.Recipe, error) {
	return domain.RestoreRecipe(
		domain.RecipeID(p.ID),
		p.Name,
		p.Tags,
		p.Ingredients,
		p.Instructions,
		p.PublishedAt,
	)
}

func (p *PgRecipe) FromDomain(r domain.Recipe) {
	*p = PgRecipe{
		ID:           uuid.UUID(r.ID()),
		Name:         r.Name().String(),
		Tags:         r.Tags().Values(),
		Ingredients:  r.Ingredients().Values(),
		Instructions: r.Instructions().Values(),
		PublishedAt:  r.PublishedAt(),
	}
}

func pgRecipesToDomain(rows []PgRecipe) ([]domain.Recipe, error) {
	out := make([]domain.Recipe, 0, len(rows))
	for i := range rows {
		r, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}
