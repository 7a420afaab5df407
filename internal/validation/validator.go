// Package validation wraps go-playground/validator with journal-specific
// tags and converts failures into apperr validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agenthands/jai/internal/apperr"
	"github.com/agenthands/jai/internal/core/model"
)

type Validator struct {
	v *validator.Validate
}

// New returns a validator that knows the `mood` and `notblank` tags and
// reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return model.Mood(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validation failed", err)
	}

	details := make(map[string]string, len(verrs))
	for _, e := range verrs {
		details[e.Field()] = friendlyMessage(e)
	}

	msg := "validation failed"
	if len(verrs) == 1 {
		msg = fmt.Sprintf("%s %s", verrs[0].Field(), details[verrs[0].Field()])
	}
	return apperr.ValidationWithDetails(msg, details)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "mood":
		moods := make([]string, len(model.Moods))
		for i, m := range model.Moods {
			moods[i] = string(m)
		}
		return "must be one of " + strings.Join(moods, ", ")
	default:
		return fmt.Sprintf("failed %q validation", e.Tag())
	}
}
