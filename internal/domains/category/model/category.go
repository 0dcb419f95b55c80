package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/optional"
)

const (
	ResourceName  = "category"
	MaxNameLength = 100

	MsgDuplicateName = "A category with this name already exists."

	ConstraintName = "categories_name_key"
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c Category) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, apperr.RuleNotBlank, apperr.RuleNoNullChars, apperr.MaxLength(MaxNameLength)),
		validation.Field(&c.Description, apperr.RuleNoNullChars),
	)
}

type CategoryInput struct {
	Name        optional.Value[string]
	Description optional.Value[string]
}

// Apply merges the input into base. Description is optional everywhere:
// omitted keeps the stored value and null clears it.
func (in CategoryInput) Apply(base Category, partial bool) (Category, error) {
	errs := apperr.FieldErrors{}
	out := base

	switch {
	case !in.Name.Set:
		if !partial {
			errs.Add("name", apperr.MsgRequired)
		}
	case in.Name.Null:
		errs.Add("name", apperr.MsgNull)
	default:
		out.Name = strings.TrimSpace(in.Name.Value)
	}

	if in.Description.Set {
		out.Description = strings.TrimSpace(in.Description.Value)
	}

	if len(errs) > 0 {
		return base, errs.Err()
	}
	if err := out.Validate(); err != nil {
		return base, apperr.FromValidation(err).Err()
	}
	return out, nil
}

// CategoryFilter selects categories for listing. A zero Limit means no limit.
type CategoryFilter struct {
	Search       string // name, case-insensitive substring
	Name         string // exact
	NameContains string
	BookID       *int64 // categories assigned to this book
	Limit        int
	Offset       int
}
