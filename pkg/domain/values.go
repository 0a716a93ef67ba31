package domain

import (
	"slices"

	"recipebook/pkg/serrors"
)

// RecipeName is the non-empty display name of a recipe.
type RecipeName struct {
	value string
}

// NewRecipeName validates s and wraps it. The input is stored verbatim.
func NewRecipeName(s string) (RecipeName, error) {
	if s == "" {
		return RecipeName{}, serrors.With(serrors.ErrInvalidData, "a recipe must have a name")
	}

	return RecipeName{value: s}, nil
}

func (n RecipeName) String() string { return n.value }

// Equal reports whether both names hold the same text.
func (n RecipeName) Equal(o RecipeName) bool { return n.value == o.value }

// stringList is the shared representation of the ordered list value objects.
type stringList []string

func newStringList(items []string, reason string) (stringList, error) {
	if len(items) == 0 {
		return nil, serrors.With(serrors.ErrInvalidData, "%s", reason)
	}

	return slices.Clone(items), nil
}

func (l stringList) values() []string { return slices.Clone(l) }

// RecipeTags is the ordered, non-empty list of tags of a recipe.
type RecipeTags struct {
	items stringList
}

// NewRecipeTags validates tags and keeps a copy in the given order.
func NewRecipeTags(tags []string) (RecipeTags, error) {
	items, err := newStringList(tags, "a recipe must have at least one tag")
	if err != nil {
		return RecipeTags{}, err
	}

	return RecipeTags{items: items}, nil
}

// Values returns a copy of the tags.
func (t RecipeTags) Values() []string { return t.items.values() }

// Equal reports whether both lists hold the same tags in the same order.
func (t RecipeTags) Equal(o RecipeTags) bool { return slices.Equal(t.items, o.items) }

// RecipeIngredients is the ordered, non-empty list of ingredients of a recipe.
type RecipeIngredients struct {
	items stringList
}

// NewRecipeIngredients validates ingredients and keeps a copy in the given order.
func NewRecipeIngredients(ingredients []string) (RecipeIngredients, error) {
	items, err := newStringList(ingredients, "a recipe must have at least one ingredient")
	if err != nil {
		return RecipeIngredients{}, err
	}

	return RecipeIngredients{items: items}, nil
}

// Values returns a copy of the ingredients.
func (i RecipeIngredients) Values() []string { return i.items.values() }

// Equal reports whether both lists hold the same ingredients in the same order.
func (i RecipeIngredients) Equal(o RecipeIngredients) bool { return slices.Equal(i.items, o.items) }

// RecipeInstructions is the ordered, non-empty list of preparation steps.
// Order is significant: it is the order the steps are performed in.
type RecipeInstructions struct {
	items stringList
}

// NewRecipeInstructions validates instructions and keeps a copy in the given order.
func NewRecipeInstructions(instructions []string) (RecipeInstructions, error) {
	items, err := newStringList(instructions, "a recipe must have at least one instruction")
	if err != nil {
		return RecipeInstructions{}, err
	}

	return RecipeInstructions{items: items}, nil
}

// Values returns a copy of the instructions.
func (i RecipeInstructions) Values() []string { return i.items.values() }

// Equal reports whether both lists hold the same steps in the same order.
func (i RecipeInstructions) Equal(o RecipeInstructions) bool { return slices.Equal(i.items, o.items) }
