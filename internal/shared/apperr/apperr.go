// Package apperr holds the error taxonomy shared by the REST and GraphQL
// transports. Services return these errors; transports translate them.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// NonFieldErrors is the key used for errors that concern a combination of fields.
const NonFieldErrors = "non_field_errors"

// Field level messages.
const (
	MsgRequired       = "This field is required."
	MsgNull           = "This field may not be null."
	MsgBlank          = "This field may not be blank."
	MsgInvalidNumber  = "A valid number is required."
	MsgInvalidInteger = "A valid integer is required."
	MsgInvalidDate    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgInvalidString  = "Not a valid string."
	MsgInvalidObject  = "Invalid data. Expected a dictionary."
	MsgNullCharacters = "Null characters are not allowed."
	MsgInvalidImage   = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var (
	ErrUnauthorized       = errors.New("authentication credentials were not provided")
	ErrInvalidToken       = errors.New("given token not valid for any token type")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrTooManyRequests    = errors.New("request was throttled")
)

// InvalidPK formats the message for a reference to a missing row.
func InvalidPK(id any) string {
	return fmt.Sprintf("Invalid pk \"%v\" - object does not exist.", id)
}

// InvalidChoice formats the message for a value outside an enumeration.
func InvalidChoice(v any) string {
	return fmt.Sprintf("\"%v\" is not a valid choice.", v)
}

// NotAList formats the message for a scalar sent where a list is expected.
func NotAList(kind string) string {
	return fmt.Sprintf("Expected a list of items but got type \"%s\".", kind)
}

// FieldErrors maps a field name to its messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// Err returns nil when no message was collected.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validation builds a single-field ValidationError.
func Validation(field, msg string) *ValidationError {
	return &ValidationError{Fields: FieldErrors{field: {msg}}}
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Message
}

// Fields renders the conflict the same way as a validation failure.
func (e *ConflictError) Fields() FieldErrors {
	return FieldErrors{e.Field: {e.Message}}
}

func Conflict(field, msg string) *ConflictError {
	return &ConflictError{Field: field, Message: msg}
}

// NotFoundError reports a missing row addressed by id.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func NotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// FieldsOf extracts a field map from validation and conflict errors.
func FieldsOf(err error) (FieldErrors, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	var cerr *ConflictError
	if errors.As(err, &cerr) {
		return cerr.Fields(), true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// HTTPStatus maps an error to its REST status code.
func HTTPStatus(err error) int {
	var (
		verr *ValidationError
		cerr *ConflictError
		nf   *NotFoundError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr), errors.As(err, &cerr):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func maxLengthMsg(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}
