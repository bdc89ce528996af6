package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is the parent of every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError names the first input field that failed a rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// newValidator reports JSON field names instead of Go field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// firstValidationError turns validator output into a *ValidationError for
// the first failing field in struct order.
func firstValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return newValidationError(fe.Field(), "%s is required", fe.Field())
	case "gt":
		return newValidationError(fe.Field(), "%s must be a positive number", fe.Field())
	case "max":
		return newValidationError(fe.Field(), "%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return newValidationError(fe.Field(), "%s must be one of: %s", fe.Field(), fe.Param())
	case "email":
		return newValidationError(fe.Field(), "%s must be a valid email address", fe.Field())
	}
	return newValidationError(fe.Field(), "%s is invalid", fe.Field())
}
