package v1handler

import (
	"unicode/utf8"

	"recipebook/pkg/serrors"
)

const minNameLength = 3

// Validate checks the request against the API rules, which are stricter than
// the domain invariants, and reports every violation at once.
func (req RecipeRequest) Validate() error {
	var details []string
	if utf8.RuneCountInString(req.Name) < minNameLength {
		details = append(details, "name must have at least 3 characters")
	}
	if len(req.Tags) == 0 {
		details = append(details, "tags must have at least 1 item")
	}
	if len(req.Ingredients) == 0 {
		details = append(details, "ingredients must have at least 1 item")
	}
	if len(req.Instructions) == 0 {
		details = append(details, "instructions must have at least 1 item")
	}
	if len(details) == 0 {
		return nil
	}

	return serrors.With(serrors.ErrValidation, "invalid recipe").WithDetails(details...)
}
