package validator

import (
	"strings"
	"sync"

	ierr "github.com/flexprice/entitlement-engine/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRequest runs struct-tag validation and converts failures into a
// validation error listing every offending field.
func ValidateRequest(req any) error {
	err := GetValidator().Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}

	fields := lo.Map(validationErrors, func(fe validator.FieldError, _ int) string {
		return fe.Namespace() + ":" + fe.Tag()
	})

	details := make(map[string]any, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Namespace()] = fe.Tag()
	}

	return ierr.WithError(err).
		WithHintf("Invalid fields: %s", strings.Join(fields, ", ")).
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
