package v1handler

import (
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"recipebook/pkg/domain"
)

// RecipeRequest is the body of the create and update calls.
type RecipeRequest struct {
	Name         string
	Tags         []string
	Ingredients  []string
	Instructions []string
}

// Decode reads a RecipeRequest. Unknown fields are ignored and null lists
// decode as empty.
func (req *RecipeRequest) Decode(d *jx.Decoder) error {
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "name":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "decode name")
			}
			req.Name = v
		case "tags":
			return errors.Wrap(decodeStrings(d, &req.Tags), "decode tags")
		case "ingredients":
			return errors.Wrap(decodeStrings(d, &req.Ingredients), "decode ingredients")
		case "instructions":
			return errors.Wrap(decodeStrings(d, &req.Instructions), "decode instructions")
		default:
			return d.Skip()
		}

		return nil
	}); err != nil {
		return errors.Wrap(err, "decode recipe request")
	}

	return nil
}

func decodeStrings(d *jx.Decoder, dst *[]string) error {
	if d.Next() == jx.Null {
		return d.Null()
	}

	return d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		*dst = append(*dst, s)

		return nil
	})
}

// decodeRecipeRequest reads a single JSON object from r.
func decodeRecipeRequest(r io.Reader) (RecipeRequest, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return RecipeRequest{}, errors.Wrap(err, "read body")
	}

	var req RecipeRequest
	d := jx.DecodeBytes(body)
	if err := req.Decode(d); err != nil {
		return RecipeRequest{}, err
	}
	if d.Next() != jx.Invalid {
		return RecipeRequest{}, errors.New("unexpected data after the request object")
	}

	return req, nil
}

func encodeStrings(e *jx.Encoder, items []string) {
	e.ArrStart()
	for _, s := range items {
		e.Str(s)
	}
	e.ArrEnd()
}

func encodeRecipe(e *jx.Encoder, r domain.Recipe) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID().String())
	e.FieldStart("name")
	e.Str(r.Name().String())
	e.FieldStart("tags")
	encodeStrings(e, r.Tags().Values())
	e.FieldStart("ingredients")
	encodeStrings(e, r.Ingredients().Values())
	e.FieldStart("instructions")
	encodeStrings(e, r.Instructions().Values())
	e.FieldStart("publishedAt")
	e.Str(r.PublishedAt().Format(time.RFC3339Nano))
	e.ObjEnd()
}

// EncodeRecipe renders a single recipe.
func EncodeRecipe(r domain.Recipe) []byte {
	var e jx.Encoder
	encodeRecipe(&e, r)

	return e.Bytes()
}

// EncodeRecipeList renders {"recipes": [...]}.
func EncodeRecipeList(recipes []domain.Recipe) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("recipes")
	e.ArrStart()
	for _, r := range recipes {
		encodeRecipe(&e, r)
	}
	e.ArrEnd()
	e.ObjEnd()

	return e.Bytes()
}

func encodeError(b ErrorBody) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Str(b.Code)
	e.FieldStart("message")
	e.Str(b.Message)
	if len(b.Details) > 0 {
		e.FieldStart("details")
		encodeStrings(&e, b.Details)
	}
	e.ObjEnd()

	return e.Bytes()
}
