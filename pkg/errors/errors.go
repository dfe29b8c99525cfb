package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypePrecondition ErrorType = "precondition"
	ErrorTypeExtraction   ErrorType = "extraction"
	ErrorTypeCompletion   ErrorType = "completion"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
	ErrorTypeEnvironment  ErrorType = "environment"
)

// CompletionKind narrows a completion error down to what the user can do about it.
type CompletionKind string

const (
	CompletionAuth      CompletionKind = "auth"
	CompletionRateLimit CompletionKind = "rate_limit"
	CompletionNetwork   CompletionKind = "network"
	CompletionMalformed CompletionKind = "malformed"
	CompletionService   CompletionKind = "service"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType      `json:"type"`
	Kind       CompletionKind `json:"kind,omitempty"`
	Message    string         `json:"message"`
	Details    string         `json:"details,omitempty"`
	StatusCode int            `json:"-"`
	Cause      error          `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewPreconditionError reports an action whose required input (upload, result) is missing.
func NewPreconditionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePrecondition,
		Message:    message,
		StatusCode: http.StatusConflict,
		Cause:      cause,
	}
}

// NewExtractionError creates a new extraction error
func NewExtractionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExtraction,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewCompletionError creates a completion service error of the given kind.
func NewCompletionError(kind CompletionKind, message string, cause error) *AppError {
	status := http.StatusBadGateway
	switch kind {
	case CompletionRateLimit:
		status = http.StatusTooManyRequests
	case CompletionNetwork:
		status = http.StatusServiceUnavailable
	}
	return &AppError{
		Type:       ErrorTypeCompletion,
		Kind:       kind,
		Message:    message,
		StatusCode: status,
		Cause:      cause,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewEnvironmentError reports a startup problem. It is never rendered to a user.
func NewEnvironmentError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeEnvironment,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusInternalServerError,
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Message
	}
	return "Something went wrong. Please try again."
}
