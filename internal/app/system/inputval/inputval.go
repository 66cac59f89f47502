// Package inputval validates decoded JSON request bodies with
// go-playground/validator.
//
// Define an input struct with validate tags, decode the body into it and
// call Validate to get per-field messages keyed by the JSON field name.
//
// Example:
//
//	type loginInput struct {
//	    UserID int64  `json:"user_id" validate:"required,gt=0"`
//	    Email  string `json:"email" validate:"required,email,max=254"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    jsonutil.ValidationError(w, res.Fields())
//	    return
//	}
package inputval

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Fields maps each failing JSON field to its message.
func (r *Result) Fields() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := out[e.Field]; !seen {
			out[e.Field] = e.Message
		}
	}
	return out
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the singleton validator with custom rules.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON field names instead of Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		// notblank: string has at least one non-space character
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		// token: printable, no whitespace
		_ = validate.RegisterValidation("token", func(fl validator.FieldLevel) bool {
			return IsValidToken(fl.Field().String())
		})
	})
	return validate
}

// Validate checks s against its validate tags.
//
// Custom rules registered by this package:
//   - notblank: string must contain a non-space character
//   - token: string must be printable with no whitespace
func Validate(s any) *Result {
	result := &Result{}

	err := getValidator().Struct(s)
	if err == nil {
		return result
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		result.Errors = append(result.Errors, FieldError{Message: err.Error()})
		return result
	}
	for _, e := range errs {
		result.Errors = append(result.Errors, FieldError{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: formatMessage(e),
		})
	}
	return result
}

// formatMessage creates a user-friendly message for a validation rule.
func formatMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "a valid email address is required"
	case "notblank":
		return e.Field() + " must not be blank"
	case "token":
		return e.Field() + " must not contain whitespace or control characters"
	case "ip":
		return e.Field() + " must be an IP address"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	default:
		return e.Field() + " is invalid"
	}
}

// IsValidEmail checks if the given string is a bare RFC 5322 address.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// ParseAddress accepts "Name <email>"; only the bare form is allowed.
	return addr.Address == email
}

// IsValidToken reports whether s is a usable session token.
func IsValidToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
