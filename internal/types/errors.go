package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Handlers must use these constants instead of
// hardcoded strings.
//
// The taxonomy follows three tiers:
//   - config_*   fatal at load/validation time; abort startup, never served.
//   - validation_* malformed caller input (400).
//   - lookup_*   well-formed input that references something the snapshot
//     does not contain (404); callers are expected to have validated their
//     selections against the offered dropdown options.
//
// Data absence (no baseline row, empty windowed series) is deliberately NOT
// an error code: those cases return typed no-data results.
const (
	// Configuration (fatal)
	ErrCodeConfigProfile  ErrorCode = "config_invalid_profile"
	ErrCodeConfigSnapshot ErrorCode = "config_invalid_snapshot"

	// Validation (400)
	ErrCodeValidationMissingField ErrorCode = "validation_missing_required_field"
	ErrCodeValidationBadDate      ErrorCode = "validation_invalid_date"
	ErrCodeValidationBadOrdinal   ErrorCode = "validation_invalid_ordinal"
	ErrCodeValidationBadCode      ErrorCode = "validation_invalid_granularity_code"
	ErrCodeValidationBadDayType   ErrorCode = "validation_invalid_day_type"

	// Lookup (404)
	ErrCodeLookupWeek        ErrorCode = "lookup_week_not_found"
	ErrCodeLookupMonth       ErrorCode = "lookup_month_not_found"
	ErrCodeLookupOrientation ErrorCode = "lookup_orientation_not_found"
	ErrCodeLookupStreet      ErrorCode = "lookup_street_not_found"
	ErrCodeLookupDirection   ErrorCode = "lookup_direction_not_found"
	ErrCodeLookupDateRange   ErrorCode = "lookup_date_out_of_range"
	ErrCodeLookupMainStreet  ErrorCode = "lookup_main_street_not_found"

	// Internal (500)
	ErrCodeInternalGranularity ErrorCode = "internal_invalid_granularity"
	ErrCodeInternalDB          ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected  ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized codes as a safe default. Configuration codes
// map to 500 as well: they should never survive startup, so seeing one in a
// response indicates a bug.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "lookup_"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard application error type. All domain and handler
// errors are expressed as AppError to enable consistent formatting, HTTP
// status mapping and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
