package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/optional"
)

const (
	ResourceName  = "author"
	MaxNameLength = 100

	MsgDuplicateAuthor = "An author with this first name and last name already exists."

	// ConstraintFullName is the unique constraint on (first_name, last_name).
	ConstraintFullName = "unique_author_full_name"
)

type Author struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.FirstName, apperr.RuleNotBlank, apperr.RuleNoNullChars, apperr.MaxLength(MaxNameLength)),
		validation.Field(&a.LastName, apperr.RuleNotBlank, apperr.RuleNoNullChars, apperr.MaxLength(MaxNameLength)),
	)
}

// AuthorInput carries the writable fields of a create or update request.
type AuthorInput struct {
	FirstName optional.Value[string]
	LastName  optional.Value[string]
}

// Apply merges the input into base. With partial unset every field is
// required, as for create and full replace.
func (in AuthorInput) Apply(base Author, partial bool) (Author, error) {
	errs := apperr.FieldErrors{}
	out := base

	applyName(errs, "first_name", in.FirstName, &out.FirstName, partial)
	applyName(errs, "last_name", in.LastName, &out.LastName, partial)
	if len(errs) > 0 {
		return base, errs.Err()
	}

	if err := out.Validate(); err != nil {
		return base, apperr.FromValidation(err).Err()
	}
	return out, nil
}

func applyName(errs apperr.FieldErrors, field string, v optional.Value[string], dst *string, partial bool) {
	switch {
	case !v.Set:
		if !partial {
			errs.Add(field, apperr.MsgRequired)
		}
	case v.Null:
		errs.Add(field, apperr.MsgNull)
	default:
		*dst = strings.TrimSpace(v.Value)
	}
}

// AuthorFilter selects authors for listing. A zero Limit means no limit.
type AuthorFilter struct {
	Search    string // first or last name, case-insensitive substring
	FirstName string // exact
	LastName  string // exact
	Limit     int
	Offset    int
}
