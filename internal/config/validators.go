package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator returns a validator that knows the exclusive rule and reports
// fields by their flag names.
func newValidator() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("exclusive", validateExclusive); err != nil {
		return nil, fmt.Errorf("registering exclusive validation: %w", err)
	}

	validate.RegisterTagNameFunc(labelOf)

	return validate, nil
}

// labelOf returns the label tag of a field, falling back to its Go name.
func labelOf(fld reflect.StructField) string {
	const splitSize = 2

	name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
	if name == "" || name == "-" {
		return fld.Name
	}

	return name
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	otherField := fl.Parent().FieldByName(fl.Param())

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		return field.String() == "" || otherField.String() == ""
	}

	return true
}

// describe turns validator errors into one readable message per field.
func describe(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))

	for _, fieldErr := range validationErrors {
		messages = append(messages, message(fieldErr))
	}

	return fmt.Errorf("validating configuration: %s", strings.Join(messages, "; "))
}

func message(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "exclusive":
		other := fieldErr.Param()
		if fld, ok := reflect.TypeFor[Config]().FieldByName(other); ok {
			other = labelOf(fld)
		}

		return fmt.Sprintf("%s is mutually exclusive with %s", fieldErr.Field(), other)
	case "required":
		return fieldErr.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed the %q check", fieldErr.Field(), fieldErr.Tag())
	}
}
