package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-backend/internal/shared/apperr"
)

func TestNewUserValidate(t *testing.T) {
	assert.NoError(t, NewUser{Username: "bob", Password: "long enough"}.Validate())

	fields, ok := apperr.FieldsOf(NewUser{Username: "  ", Password: "short"}.Validate())
	require.True(t, ok)
	assert.Equal(t, apperr.FieldErrors{
		"username": {apperr.MsgBlank},
		"password": {"This password is too short. It must contain at least 8 characters."},
	}, fields)
}

func TestCredentialsValidate(t *testing.T) {
	fields, ok := apperr.FieldsOf(Credentials{Username: "bo\x00b", Password: ""}.Validate())
	require.True(t, ok)
	assert.Equal(t, apperr.FieldErrors{
		"username": {apperr.MsgNullCharacters},
		"password": {apperr.MsgBlank},
	}, fields)
}
