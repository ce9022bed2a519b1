package user

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a JSON field name to its first failure message.
type FieldErrors map[string]string

// validate runs struct validation and translates failures into FieldErrors
// wrapped in ErrValidationFailed.
func validate(v *validator.Validate, req any) (FieldErrors, error) {
	err := v.Struct(req)
	if err == nil {
		return nil, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	out := FieldErrors{}
	for _, fe := range ve {
		if _, ok := out[fe.Field()]; ok {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out, ErrValidationFailed
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
