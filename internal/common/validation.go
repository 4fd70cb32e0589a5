package common

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// InputError is a validation failure whose Message is safe to show to
// clients. Err keeps the underlying cause for logs.
type InputError struct {
	Message string
	Err     error
}

func NewInputError(msg string, err error) *InputError {
	return &InputError{Message: msg, Err: err}
}

func (e *InputError) Error() string {
	if e.Err == nil {
		return ErrValidation.Error() + ": " + e.Message
	}
	return ErrValidation.Error() + ": " + e.Message + ": " + e.Err.Error()
}

func (e *InputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// JSONTagName names struct fields after their json tag. Register it with
// validator.RegisterTagNameFunc so field errors carry wire names.
func JSONTagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// DescribeInvalid turns a bind or validation error into a short message
// naming the offending fields.
func DescribeInvalid(err error) string {
	var fields []string

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			if !slices.Contains(fields, fe.Field()) {
				fields = append(fields, fe.Field())
			}
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields = append(fields, typeErr.Field)
	}

	if len(fields) == 0 {
		return "Malformed request body"
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}

