package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/internal/shared/optional"
)

// BookInput carries the writable fields of a create or update request.
type BookInput struct {
	Title           optional.Value[string]
	AuthorID        optional.Value[int64]
	CategoryIDs     optional.Value[[]int64]
	Description     optional.Value[string]
	Price           optional.Value[decimal.Decimal]
	PublicationDate optional.Value[time.Time]
	Format          optional.Value[string]
	Details         optional.Value[DetailsInput]

	// Cover holds the raw uploaded image; an explicit null removes the cover.
	Cover optional.Value[[]byte]
}

// DetailsInput is the nested details payload. Every field is optional and
// an explicit null clears the stored value.
type DetailsInput struct {
	ISBN          optional.Value[string]
	NumberOfPages optional.Value[int]
	Language      optional.Value[string]
	Publisher     optional.Value[string]
}

// Empty reports whether no field carries a non-null value.
func (d DetailsInput) Empty() bool {
	_, isbn := d.ISBN.Get()
	_, pages := d.NumberOfPages.Get()
	_, lang := d.Language.Get()
	_, pub := d.Publisher.Get()
	return !isbn && !pages && !lang && !pub
}

// NewBook returns the defaults applied before a create request.
func NewBook() Book {
	return Book{Format: FormatPaperback}
}

// Apply merges the input into base and validates the result. With partial
// unset, the required fields title, author, categories, price and
// publication_date must be present.
func (in BookInput) Apply(base Book, partial bool) (Book, error) {
	errs := apperr.FieldErrors{}
	out := base

	if v, ok := required(errs, "title", in.Title, partial); ok {
		out.Title = strings.TrimSpace(v)
	}
	if v, ok := required(errs, "author", in.AuthorID, partial); ok {
		out.AuthorID = v
	}
	if v, ok := required(errs, "categories", in.CategoryIDs, partial); ok {
		out.CategoryIDs = dedupe(v)
	}
	if v, ok := required(errs, "price", in.Price, partial); ok {
		out.Price = v
	}
	if v, ok := required(errs, "publication_date", in.PublicationDate, partial); ok {
		out.PublicationDate = v
	}

	// Omitted optional fields keep their stored value, also on replace.
	switch {
	case !in.Description.Set:
	case in.Description.Null:
		errs.Add("description", apperr.MsgNull)
	default:
		out.Description = strings.TrimSpace(in.Description.Value)
	}

	switch {
	case !in.Format.Set:
	case in.Format.Null:
		errs.Add("book_format", apperr.MsgNull)
	default:
		out.Format = Format(strings.TrimSpace(in.Format.Value))
	}

	if d, ok := in.Details.Get(); ok {
		out.Details = MergeDetails(base.Details, d)
	}

	if len(errs) > 0 {
		return base, errs.Err()
	}
	if err := out.Validate(); err != nil {
		return base, apperr.FromValidation(err).Err()
	}
	return out, nil
}

// required applies the presence rules shared by the mandatory fields.
func required[T any](errs apperr.FieldErrors, field string, v optional.Value[T], partial bool) (T, bool) {
	switch {
	case !v.Set:
		if !partial {
			errs.Add(field, apperr.MsgRequired)
		}
	case v.Null:
		errs.Add(field, apperr.MsgNull)
	default:
		return v.Value, true
	}
	var zero T
	return zero, false
}

// MergeDetails applies a details payload to the stored row. With an
// existing row only the supplied fields change. Without one, a row is
// created only when the payload carries at least one non-null value.
// The result is nil when no row should exist.
func MergeDetails(existing *Details, in DetailsInput) *Details {
	if existing == nil && in.Empty() {
		return nil
	}

	var out Details
	if existing != nil {
		out = *existing
	}

	if in.ISBN.Set {
		out.ISBN = normaliseISBN(in.ISBN)
	}
	if in.NumberOfPages.Set {
		out.NumberOfPages = in.NumberOfPages.Ptr()
	}
	if in.Language.Set {
		out.Language = in.Language.Ptr()
	}
	if in.Publisher.Set {
		out.Publisher = in.Publisher.Ptr()
	}
	return &out
}

// normaliseISBN stores blank ISBNs as NULL so they never collide on the
// unique constraint.
func normaliseISBN(v optional.Value[string]) *string {
	s, ok := v.Get()
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
