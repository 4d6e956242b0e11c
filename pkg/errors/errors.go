package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "ValidationError"
	ErrorTypeNotFound        ErrorType = "NotFoundError"
	ErrorTypeUnsupportedType ErrorType = "UnsupportedTypeError"
	ErrorTypeInternal        ErrorType = "InternalError"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"error"`
	Details    string    `json:"detail,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
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
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    firstDetail(details),
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		Details:    firstDetail(details),
		StatusCode: http.StatusNotFound,
	}
}

// NewUnsupportedTypeError is returned when an upload has an extension no extractor handles.
func NewUnsupportedTypeError(message string, details ...string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedType,
		Message:    message,
		Details:    firstDetail(details),
		StatusCode: http.StatusBadRequest,
	}
}

// NewInternalError creates a new internal server error. The cause message
// becomes the error detail.
func NewInternalError(message string, cause error) *AppError {
	appErr := &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
	if cause != nil {
		appErr.Details = cause.Error()
	}
	return appErr
}

// As returns the first *AppError in err's chain.
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

func firstDetail(details []string) string {
	if len(details) > 0 {
		return details[0]
	}
	return ""
}
