package v1handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"recipebook/pkg/logger"
	"recipebook/pkg/serrors"
	"recipebook/pkg/storage"
)

// maxBodyBytes caps request bodies of the create and update calls.
const maxBodyBytes = 1 << 20

func (h Handler) readRecipeRequest(w http.ResponseWriter, r *http.Request) (RecipeRequest, error) {
	req, err := decodeRecipeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return RecipeRequest{}, serrors.Wrap(serrors.ErrBadRequest, err, "malformed request body")
	}
	if err := req.Validate(); err != nil {
		return RecipeRequest{}, err
	}

	return req, nil
}

// CreateRecipe handles POST /recipes.
func (h Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRecipeRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	created, err := h.deps.Recipes.Create(r.Context(), req.Name, req.Tags, req.Ingredients, req.Instructions)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	logger.Info(r.Context(), "recipe created", zap.Stringer("recipe_id", created.ID()), actor(r.Context()))

	w.Header().Set("Location", "/v1/recipes/"+created.ID().String())
	writeJSON(w, http.StatusCreated, EncodeRecipe(created))
}

// GetRecipe handles GET /recipes/{id}.
func (h Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	found, err := h.deps.Recipes.FindOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, EncodeRecipe(found))
}

// queryList accepts both "tags=a&tags=b" and "tags[]=a&tags[]=b".
func queryList(q url.Values, key string) []string {
	return append(q[key], q[key+"[]"]...)
}

// FindRecipes handles GET /recipes.
func (h Handler) FindRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := storage.RecipeCriteria{
		Name:         q.Get("name"),
		Tags:         queryList(q, "tags"),
		Ingredients:  queryList(q, "ingredients"),
		Instructions: queryList(q, "instructions"),
	}

	recipes, err := h.deps.Recipes.FindAll(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, EncodeRecipeList(recipes))
}

// UpdateRecipe handles PUT /recipes/{id}.
func (h Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRecipeRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	updated, err := h.deps.Recipes.Update(r.Context(),
		chi.URLParam(r, "id"), req.Name, req.Tags, req.Ingredients, req.Instructions)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	logger.Info(r.Context(), "recipe updated", zap.Stringer("recipe_id", updated.ID()), actor(r.Context()))

	writeJSON(w, http.StatusOK, EncodeRecipe(updated))
}

// DeleteRecipe handles DELETE /recipes/{id}.
func (h Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.deps.Recipes.DeleteOne(r.Context(), id); err != nil {
		h.writeError(w, r, err)

		return
	}

	logger.Info(r.Context(), "recipe deleted", zap.String("recipe_id", id), actor(r.Context()))

	w.WriteHeader(http.StatusNoContent)
}
