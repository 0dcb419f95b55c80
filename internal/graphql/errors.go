package graphql

import (
	"errors"
	"fmt"
	"sort"

	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/pkg/logger"
)

const msgLoginRequired = "You must be logged in."

// entity names one resource in mutation error messages.
type entity struct {
	label string // "Author"
	noun  string // "author"
}

var (
	authorEntity   = entity{label: "Author", noun: "author"}
	categoryEntity = entity{label: "Category", noun: "category"}
	bookEntity     = entity{label: "Book", noun: "book"}
)

func (e entity) invalidID() string {
	return fmt.Sprintf("Invalid %s ID.", e.noun)
}

func (e entity) notFound(globalID string) string {
	return fmt.Sprintf("%s with ID %s does not exist.", e.label, globalID)
}

// mutationErrors maps the error taxonomy onto the messages of a mutation
// payload. Errors outside the taxonomy are logged and reported generically.
func (e entity) mutationErrors(err error, verb, globalID string) []string {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		return []string{msgLoginRequired}
	case apperr.IsNotFound(err):
		return []string{e.notFound(globalID)}
	}
	if fields, ok := apperr.FieldsOf(err); ok {
		return flattenFields(fields)
	}

	logger.Error(fmt.Sprintf("GraphQL %s %s failed", verb, e.noun), err)
	return []string{fmt.Sprintf("Unexpected error while %s %s.", verb, e.noun)}
}

// flattenFields renders "field: message" lines in field order. Messages
// that belong to no single field are listed bare.
func flattenFields(fields apperr.FieldErrors) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		for _, msg := range fields[name] {
			if name == apperr.NonFieldErrors {
				out = append(out, msg)
				continue
			}
			out = append(out, name+": "+msg)
		}
	}
	return out
}
