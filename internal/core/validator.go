package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"ttmon/internal/types"
)

// Validator wraps the go-playground validator so handlers get AppError
// results instead of library-specific error types.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator returns a validator configured for request structs.
func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Struct runs struct validation and converts failures into an AppError
// carrying per-field detail messages.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.logger.Error("validator returned non-validation error", slog.String("error", err.Error()))
		return types.NewAppError(types.ErrCodeInternalUnexpected, "request validation failed", err)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
	return types.NewAppErrorWithDetails(types.ErrCodeValidationMissingField, "invalid request parameters", err, details)
}
