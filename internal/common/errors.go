// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the JSON error body of every failed request. StatusCode only
// selects the HTTP status and is not serialized.
type APIError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Code, e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

// WithDetails returns a copy of e carrying details. Sentinels stay untouched.
func (e *APIError) WithDetails(details interface{}) *APIError {
	clone := *e
	clone.Details = details
	return &clone
}

// Is matches by Code, so a detailed copy still satisfies errors.Is against
// its sentinel.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrBadRequest          = NewAPIError(http.StatusBadRequest, "BAD_REQUEST", "The request could not be understood.")
	ErrNotFound            = NewAPIError(http.StatusNotFound, "NOT_FOUND", "Nothing matches the requested resource.")
	ErrMethodNotAllowed    = NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The resource does not support this method.")
	ErrConflict            = NewAPIError(http.StatusConflict, "CONFLICT", "The resource already exists.")
	ErrUnprocessableEntity = NewAPIError(http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "The request is valid but cannot be served.")
	ErrInternalServer      = NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Something went wrong on our side.")
	ErrServiceUnavailable  = NewAPIError(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "A required backend is not available.")
)

// IsAPIError unwraps err to its *APIError, if it carries one.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewValidationAPIError wraps per-field binding failures.
func NewValidationAPIError(details interface{}) *APIError {
	return &APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       "VALIDATION_ERROR",
		Message:    "One or more fields are invalid.",
		Details:    details,
	}
}

// validationMessages holds the message per validator tag. %[1]s is the
// lower-cased field name and %[2]s the tag parameter.
var validationMessages = map[string]string{
	"required":     "The %[1]s field is required.",
	"min":          "The %[1]s field must be at least %[2]s characters long.",
	"max":          "The %[1]s field may not be longer than %[2]s characters.",
	"alphanumdash": "The %[1]s field may only contain letters, digits and dashes.",
	"oneof":        "The %[1]s field must be one of: %[2]s.",
}

// FormatValidationErrors maps each failing field to a readable message.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		tmpl, ok := validationMessages[e.Tag()]
		if !ok {
			out[e.Field()] = fmt.Sprintf("The %s field failed the %q rule.", strings.ToLower(e.Field()), e.Tag())
			continue
		}
		out[e.Field()] = fmt.Sprintf(tmpl, strings.ToLower(e.Field()), e.Param())
	}
	return out
}
