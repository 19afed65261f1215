package model

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/medscan/portal/internal/errors"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks v's struct tags and returns the first failure as a validation AppError
// carrying the field name and a user-facing message.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid input")
	}

	first := verrs[0]
	return errors.ValidationField(first.Field(), fieldMessage(first))
}

// fieldMessage renders one validator failure in plain language.
func fieldMessage(fe validator.FieldError) string {
	field := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return field + " is required for doctors"
	case "email":
		return "please enter a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "datetime":
		return field + " has an invalid format"
	case "url":
		return field + " must be a valid URL"
	default:
		return field + " is invalid"
	}
}

// humanize turns "ConfirmPassword" into "confirm password".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
