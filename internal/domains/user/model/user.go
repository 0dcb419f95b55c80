package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookshelf-backend/internal/shared/apperr"
)

const (
	ResourceName      = "user"
	MaxUsernameLength = 150
	MinPasswordLength = 8

	ConstraintUsername = "users_username_key"
	MsgDuplicateUser   = "A user with that username already exists."
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// Credentials is the body of the token endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Username, apperr.RuleNotBlank, apperr.RuleNoNullChars),
		validation.Field(&c.Password, apperr.RuleNotBlank),
	)
	return apperr.FromValidation(err).Err()
}

// NewUser is the input of user provisioning.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (n NewUser) Validate() error {
	n.Username = strings.TrimSpace(n.Username)
	err := validation.ValidateStruct(&n,
		validation.Field(&n.Username, apperr.RuleNotBlank, apperr.RuleNoNullChars, apperr.MaxLength(MaxUsernameLength)),
		validation.Field(&n.Password, apperr.RuleNotBlank,
			validation.RuneLength(MinPasswordLength, 0).Error("This password is too short. It must contain at least 8 characters.")),
	)
	return apperr.FromValidation(err).Err()
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
