package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"recipebook/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrInvalidData,
		serrors.ErrConflict,
		serrors.ErrNotFound,
		serrors.ErrUnknown,
		serrors.ErrBadRequest,
		serrors.ErrValidation,
		serrors.ErrUnauthorized,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}

	require.NotEqual(t, serrors.ErrInvalidData, serrors.ErrBadRequest, "InvalidData should not equal BadRequest")
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("db down")

	e1 := serrors.With(serrors.ErrNotFound, "recipe %d not found", 42)
	require.Equal(t, "recipe 42 not found", e1.Error(), "With() Error() mismatch")

	e2 := serrors.Wrap(serrors.ErrNotFound, base, "finding recipe")
	require.Equal(t, "finding recipe: db down", e2.Error(), "Wrap() Error() mismatch")

	e3 := serrors.KindOnly(serrors.ErrNotFound)
	require.Equal(t, "NOT_FOUND", e3.Error(), "KindOnly Error() mismatch")
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	require.ErrorIs(t, e, serrors.ErrNotFound)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrUnauthorized, "errors.Is should not match a different kind")
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrNotFound, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k, "errors.As should extract Kind")
	require.Equal(t, serrors.ErrNotFound, k)

	var ce *customError
	require.ErrorAs(t, e, &ce, "errors.As should extract wrapped error type")
	require.Equal(t, base, ce, "extracted cause pointer mismatch")
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrUnauthorized, base, "no token")
	require.Equal(t, serrors.ErrUnauthorized, e.Kind())
	require.Equal(t, "no token", e.Message())
	require.Equal(t, base, e.Cause())
}

func TestDetails(t *testing.T) {
	e := serrors.With(serrors.ErrValidation, "invalid request").
		WithDetails("name must have at least 3 characters").
		WithDetails("tags must have at least 1 item")

	details := e.Details()
	require.Equal(t, []string{
		"name must have at least 3 characters",
		"tags must have at least 1 item",
	}, details)

	details[0] = "mutated"
	require.Equal(t, "name must have at least 3 characters", e.Details()[0], "Details must return a copy")
	require.Nil(t, serrors.KindOnly(serrors.ErrUnknown).Details())
}

func TestKindOf(t *testing.T) {
	e := serrors.Wrap(serrors.ErrConflict, errors.New("duplicate key"), "creating recipe")
	wrapped := fmt.Errorf("handler: %w", e)

	require.Equal(t, serrors.ErrConflict, serrors.KindOf(wrapped))
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Nil(t, serrors.KindOf(nil))
}
