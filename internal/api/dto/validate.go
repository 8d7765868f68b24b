package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "github.com/spec-kit/hospital-service/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// fieldProblems runs the struct's validate tags and returns one message per
// failing field, keyed by JSON name.
func fieldProblems(payload any) map[string]any {
	problems := map[string]any{}
	err := validate.Struct(payload)
	if err == nil {
		return problems
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		problems["payload"] = err.Error()
		return problems
	}
	for _, fe := range fieldErrs {
		problems[fe.Field()] = describe(fe)
	}
	return problems
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "notblank":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	}
	return "is invalid"
}

func invalid(problems map[string]any) error {
	if len(problems) == 0 {
		return nil
	}
	return apperrors.NewValidationError("invalid payload", problems)
}
