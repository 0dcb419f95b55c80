package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors_Err(t *testing.T) {
	assert.NoError(t, FieldErrors{}.Err())
	assert.NoError(t, FieldErrors(nil).Err())

	errs := FieldErrors{}
	errs.Add("title", MsgRequired)
	err := errs.Err()
	require.Error(t, err)

	fields, ok := FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, []string{MsgRequired}, fields["title"])
}

func TestFieldErrors_Merge(t *testing.T) {
	a := FieldErrors{"title": {"one"}}
	a.Merge(FieldErrors{"title": {"two"}, "price": {"three"}})

	assert.Equal(t, []string{"one", "two"}, a["title"])
	assert.True(t, a.Has("price"))
	assert.False(t, a.Has("author"))
}

func TestConflict_RendersAsFieldErrors(t *testing.T) {
	err := fmt.Errorf("create: %w", Conflict(NonFieldErrors, "duplicate"))

	fields, ok := FieldsOf(err)
	require.True(t, ok)
	assert.Equal(t, FieldErrors{NonFieldErrors: {"duplicate"}}, fields)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("title", MsgBlank), http.StatusBadRequest},
		{"conflict", Conflict("name", "taken"), http.StatusBadRequest},
		{"not found", fmt.Errorf("wrapped: %w", NotFound("book", 3)), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"throttled", ErrTooManyRequests, http.StatusTooManyRequests},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("author", 1)))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, `Invalid pk "7" - object does not exist.`, InvalidPK(7))
	assert.Equal(t, `"XX" is not a valid choice.`, InvalidChoice("XX"))
	assert.Equal(t, `Expected a list of items but got type "str".`, NotAList("str"))
}

type sample struct {
	Name    string  `json:"name"`
	Details *nested `json:"details"`
}

type nested struct {
	ISBN string `json:"isbn"`
}

func (n nested) Validate() error {
	return validation.ValidateStruct(&n, validation.Field(&n.ISBN, MaxLength(3)))
}

func TestFromValidation_FlattensNestedErrors(t *testing.T) {
	s := sample{Name: "", Details: &nested{ISBN: "12345"}}
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Name, RuleNotBlank),
		validation.Field(&s.Details),
	)

	fields := FromValidation(err)
	assert.Equal(t, []string{MsgBlank}, fields["name"])
	assert.Equal(t, []string{"Ensure this field has no more than 3 characters."}, fields["details.isbn"])
}

func TestFromValidation_Nil(t *testing.T) {
	assert.Nil(t, FromValidation(nil))
}
