package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campusdesk/campusdesk/internal/shared/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "yaml"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Validator exposes the shared instance so callers can register custom tags.
func Validator() *validator.Validate {
	return validate
}

// ValidateStruct validates s and reports the first failing field as a
// field validation error.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	return TranslateValidationError(err)
}

// TranslateValidationError turns validator output into an *errors.AppError.
// Errors of any other kind become a generic validation error.
func TranslateValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.NewValidationError("invalid request", err.Error())
	}
	fe := verrs[0]
	return errors.NewFieldValidationError(fe.Field(), fieldErrorMessage(fe))
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "ticket_status":
		return fmt.Sprintf("%s must be one of [open in_progress resolved closed]", field)
	case "ticket_priority":
		return fmt.Sprintf("%s must be one of [low normal high urgent]", field)
	case "visibility":
		return fmt.Sprintf("%s must be one of [public internal]", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}
