// Package validation checks request payloads at the API boundary, before
// anything reaches storage.
//
// Rules are declared as `validate:"…"` struct tags on the model and input
// types and evaluated by go-playground/validator. The first violation is
// turned into an apperror.ValidationFailed naming the offending field by
// its JSON name, e.g. "skills[2].progress".
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/resume-builder/internal/apperror"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// instance returns the shared validator. validator.Validate caches struct
// metadata and is safe for concurrent use.
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

// Struct validates s and returns nil or an *apperror.AppError wrapping
// apperror.ErrValidation.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validation: %w", err)
	}

	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	return apperror.ValidationFailed(field, message(field, fe))
}

// jsonFieldName makes error namespaces use JSON names instead of Go names.
func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// fieldPath drops the root type from a namespace:
// "ResumePatch.skills[0].progress" → "skills[0].progress".
// Embedded structs without a json tag contribute their Go name, which is
// dropped as well so the path matches the wire format.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p == "ResumeContent" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("%s must have %s entries or fewer", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
