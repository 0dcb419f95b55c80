package apperr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation converts ozzo-validation errors into field errors. Nested
// struct errors are flattened into "parent.child" keys.
func FromValidation(err error) FieldErrors {
	if err == nil {
		return nil
	}
	fields := FieldErrors{}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		fields.Add(NonFieldErrors, err.Error())
		return fields
	}
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		var nested validation.Errors
		if errors.As(ferr, &nested) {
			for k, msgs := range FromValidation(nested) {
				fields[field+"."+k] = append(fields[field+"."+k], msgs...)
			}
			continue
		}
		fields.Add(field, ferr.Error())
	}
	return fields
}

// Rule messages shared by model validators.
var (
	RuleNotBlank = validation.Required.Error(MsgBlank)

	// RuleNoNullChars rejects text PostgreSQL cannot store.
	RuleNoNullChars = validation.NewStringRule(func(s string) bool {
		return !strings.ContainsRune(s, 0)
	}, MsgNullCharacters)

	// RuleInt32 bounds values kept in INTEGER columns.
	RuleInt32 = validation.Max(math.MaxInt32).
			Error(fmt.Sprintf("Ensure this value is less than or equal to %d.", math.MaxInt32))
)

// MaxLength builds a rune length rule with the standard message.
func MaxLength(n int) validation.Rule {
	return validation.RuneLength(0, n).Error(maxLengthMsg(n))
}
