package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an error for HTTP mapping and logging
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeInternal     ErrorType = "INTERNAL"
	ErrorTypeTimeout      ErrorType = "TIMEOUT"
	ErrorTypeExternal     ErrorType = "EXTERNAL"
)

// AppError is the application error carried across layers. Handlers map it
// to an HTTP status; everything else wraps with %w and lets it bubble up.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Cause      error     `json:"-"`
	HTTPStatus int       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a validation error (HTTP 400). The message must
// identify the offending field.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewNotFoundError creates a not found error (HTTP 404)
func NewNotFoundError(resource string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf("%s no encontrado", resource), HTTPStatus: http.StatusNotFound}
}

// NewConflictError creates a conflict error (HTTP 409)
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// NewUnauthorizedError creates an authentication error (HTTP 401)
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewForbiddenError creates an authorization error (HTTP 403)
func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// NewInternalError creates an internal error (HTTP 500)
func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, HTTPStatus: http.StatusInternalServerError}
}

// NewExternalError creates an upstream service error (HTTP 500)
func NewExternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, HTTPStatus: http.StatusInternalServerError}
}

// NewTimeoutError creates a timeout error (HTTP 504)
func NewTimeoutError(message string) *AppError {
	return &AppError{Type: ErrorTypeTimeout, Message: message, HTTPStatus: http.StatusGatewayTimeout}
}

// AsAppError extracts an *AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatusOf maps any error to an HTTP status code
func HTTPStatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
