// Package v1handler implements the /v1 HTTP API on top of the recipe use cases.
package v1handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"recipebook/internal/recipe"
	"recipebook/pkg/logger"
	"recipebook/pkg/serrors"
)

// Deps groups the collaborators the handlers call into.
type Deps struct {
	Recipes recipe.Service
}

// Handler serves the v1 recipe routes on top of the recipe use cases.
type Handler struct {
	deps Deps
}

// New returns a Handler calling into deps.
func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Register mounts the recipe routes on r. Mutating routes are wrapped with
// auth when it is not nil.
func (h Handler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.FindRecipes)
		r.Get("/{id}", h.GetRecipe)

		r.Group(func(r chi.Router) {
			if auth != nil {
				r.Use(auth)
			}
			r.Post("/", h.CreateRecipe)
			r.Put("/{id}", h.UpdateRecipe)
			r.Delete("/{id}", h.DeleteRecipe)
		})
	})
}

// ErrorBody is the JSON payload of every error response.
type ErrorBody struct {
	Code    string
	Message string
	Details []string
}

// ErrorResponse pairs an ErrorBody with its HTTP status.
type ErrorResponse struct {
	StatusCode int
	Response   ErrorBody
}

var kindStatus = map[serrors.Kind]int{ //nolint: gochecknoglobals
	serrors.ErrInvalidData:  http.StatusBadRequest,
	serrors.ErrBadRequest:   http.StatusBadRequest,
	serrors.ErrValidation:   http.StatusUnprocessableEntity,
	serrors.ErrUnauthorized: http.StatusUnauthorized,
	serrors.ErrNotFound:     http.StatusNotFound,
	serrors.ErrConflict:     http.StatusConflict,
}

var kindMessage = map[serrors.Kind]string{ //nolint: gochecknoglobals
	serrors.ErrInvalidData:  "invalid data",
	serrors.ErrBadRequest:   "bad request",
	serrors.ErrValidation:   "validation failed",
	serrors.ErrUnauthorized: "unauthorized",
	serrors.ErrNotFound:     "resource not found",
	serrors.ErrConflict:     "conflict",
}

// NewError maps err onto an HTTP error response. Errors without a client
// facing kind become a 500 with a generic message and are logged.
func (h Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	var kind serrors.Kind
	var se *serrors.Error
	switch {
	case errors.As(err, &se):
		kind = se.Kind()
	case errors.As(err, &kind):
	}

	status, ok := kindStatus[kind]
	if !ok {
		logger.Error(ctx, "request failed", zap.Error(err))

		code := serrors.ErrInternal.Error()
		if kind == serrors.ErrUnknown {
			code = kind.Error()
		}

		return &ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Response:   ErrorBody{Code: code, Message: "internal error"},
		}
	}

	msg := kindMessage[kind]
	var details []string
	if se != nil {
		if se.Message() != "" {
			msg = se.Message()
		}
		details = se.Details()
	}

	return &ErrorResponse{
		StatusCode: status,
		Response:   ErrorBody{Code: kind.Error(), Message: msg, Details: details},
	}
}

func (h Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(w, res.StatusCode, encodeError(res.Response))
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
