// Package errors defines the migration error taxonomy. The type of an error
// decides how a run reacts to it: abort, retry, or record-and-continue.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeAuth is fatal: no subsequent API call can succeed.
	ErrorTypeAuth ErrorType = "auth_failed"
	// ErrorTypeTransient is retried with bounded backoff, then surfaced
	// as a per-page or per-record failure.
	ErrorTypeTransient ErrorType = "transient"
	// ErrorTypeRemoteValidation is recorded per record; the run continues.
	ErrorTypeRemoteValidation ErrorType = "remote_validation"
	// ErrorTypeConflict means the remote already has the record.
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeUnresolved means a foreign reference could not be resolved
	// against the lookups; the record is skipped, not the run.
	ErrorTypeUnresolved ErrorType = "unresolved"
	// ErrorTypeDataQuality marks a spreadsheet row dropped during
	// normalization.
	ErrorTypeDataQuality ErrorType = "data_quality"
	ErrorTypeInternal    ErrorType = "internal_error"
)

// AppError represents a migration error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewAuthError creates a fatal authentication/authorization error
func NewAuthError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeAuth,
		Message: message,
		Code:    http.StatusUnauthorized,
		Details: first(details),
	}
}

// NewTransientError creates a retryable network/server error
func NewTransientError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeTransient,
		Message: message,
		Code:    http.StatusServiceUnavailable,
		Details: first(details),
	}
}

// NewRemoteValidationError creates an error for a create rejected by the API
func NewRemoteValidationError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeRemoteValidation,
		Message: message,
		Code:    http.StatusBadRequest,
		Details: first(details),
	}
}

// NewConflictError creates an error for a record the remote already has
func NewConflictError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
		Code:    http.StatusConflict,
		Details: first(details),
	}
}

// NewUnresolvedError creates an error for a missing foreign reference
func NewUnresolvedError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnresolved,
		Message: message,
		Code:    http.StatusUnprocessableEntity,
		Details: first(details),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Code:    http.StatusInternalServerError,
		Details: first(details),
	}
}

// IsType checks whether err is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsAuth reports whether err is fatal for the whole run
func IsAuth(err error) bool {
	return IsType(err, ErrorTypeAuth)
}

// IsTransient reports whether err is worth retrying
func IsTransient(err error) bool {
	return IsType(err, ErrorTypeTransient)
}

// IsConflict reports whether the remote already has the record
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// GetType returns the error type, or ErrorTypeInternal for foreign errors
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

func first(details []string) string {
	if len(details) > 0 {
		return details[0]
	}
	return ""
}
