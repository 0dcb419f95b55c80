package database

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolation reports the violated constraint of a unique_violation error.
func UniqueViolation(err error) (string, bool) {
	return violation(err, pgerrcode.UniqueViolation)
}

// ForeignKeyViolation reports the violated constraint of a foreign_key_violation error.
func ForeignKeyViolation(err error) (string, bool) {
	return violation(err, pgerrcode.ForeignKeyViolation)
}

// CheckViolation reports the violated constraint of a check_violation error.
func CheckViolation(err error) (string, bool) {
	return violation(err, pgerrcode.CheckViolation)
}

func violation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
