package ows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		b, ok := sl.Current().Interface().(BBox)
		switch {
		case !ok:
		case b.Empty():
			sl.ReportError(b, "BBox", "BBox", "required", "")
		case !b.Finite():
			sl.ReportError(b, "BBox", "BBox", "finite", "")
		}
	}, BBox{})
}

// Validate checks a query struct against its `validate` tags. Failures wrap
// ErrInvalidQuery and name every offending field.
func Validate(q any) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "nonblank":
		return fe.Field() + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "finite":
		return fe.Field() + " coordinates must be finite numbers"
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}
