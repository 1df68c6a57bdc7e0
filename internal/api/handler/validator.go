package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// requestValidator checks bound admin requests against their validate tags
// and reports every failing field in one message.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator installed on the router. Failures name
// fields as the client sent them: the json, query or path parameter name.
func NewValidator() echo.Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}
	msgs := make([]string, len(failures))
	for n, fe := range failures {
		msgs[n] = describeFailure(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

// describeFailure phrases a failed tag for an admin reading the 400 body,
// e.g. "pageSize must be at least 1".
func describeFailure(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be an e-mail address"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
