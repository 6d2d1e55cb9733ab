// Package form holds the typed HTML forms and their validation.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator wraps validator for Echo. Field errors are reported under the
// field's form name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator that names fields after their form tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator interface.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Errors maps a form field name to its messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Get returns the messages for field.
func (e Errors) Get(field string) []string {
	return e[field]
}

// Any reports whether there is at least one message.
func (e Errors) Any() bool {
	return len(e) > 0
}

// FormField is the key for errors that belong to the whole form.
const FormField = "_form"

type normalizer interface {
	Normalize()
}

// Check trims the form when it knows how, validates it through the Echo
// validator and returns the field errors, or nil when the form is valid.
func Check(c echo.Context, f interface{}) Errors {
	if n, ok := f.(normalizer); ok {
		n.Normalize()
	}
	return FromError(c.Validate(f))
}

// FromError converts a validation error into field errors.
func FromError(err error) Errors {
	if err == nil {
		return nil
	}
	errs := Errors{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(FormField, err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "eqfield":
		return "Passwords must match."
	case "datetime":
		return "Not a valid date value (YYYY-MM-DD)."
	default:
		return "Invalid value."
	}
}
