package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CredentialValidator checks request DTOs at the API boundary and reports
// every failing field at once.
type CredentialValidator struct {
	v *validator.Validate
}

func NewCredentialValidator() CredentialValidator {
	validateOnce.Do(func() {
		validate = newValidate()
	})
	return CredentialValidator{v: validate}
}

// Validate returns nil or an ErrValidation carrying "fields" details.
func (cv CredentialValidator) Validate(req any) error {
	err := cv.v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrValidation.WithCause(err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return ErrValidation.WithDetails(map[string]any{"fields": fields})
}

// FieldErrors extracts the per-field failures from a validation error.
func FieldErrors(err error) []FieldError {
	var de interface{ Details() map[string]any }
	if !errors.As(err, &de) || de.Details() == nil {
		return nil
	}
	fields, _ := de.Details()["fields"].([]FieldError)
	return fields
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	_ = v.RegisterValidation("authemail", func(fl validator.FieldLevel) bool {
		return isValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	return v
}

func isValidEmail(value string) bool {
	return emailRegex.MatchString(value)
}

// isStrongPassword accepts a password when, from some position that is not a
// '.' or a line break, the rest of that line holds a digit or symbol, an ASCII
// uppercase letter and an ASCII lowercase letter. Letters are ASCII only and
// '_' is not a symbol.
func isStrongPassword(value string) bool {
	runes := []rune(value)
	var hasDigitOrSymbol, hasUpper, hasLower bool
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if isLineTerminator(r) {
			hasDigitOrSymbol, hasUpper, hasLower = false, false, false
			continue
		}
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r != '_':
			hasDigitOrSymbol = true
		}
		if r != '.' && hasDigitOrSymbol && hasUpper && hasLower {
			return true
		}
	}
	return false
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "authemail":
		return "email is invalid"
	case "strongpassword":
		return "password too weak"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
