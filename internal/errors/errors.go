package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_ARGUMENT")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error. Ownership checks fold into
// existence checks, so a non-owner sees the same error as a missing resource.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewInvalidArgumentError creates a new INVALID_ARGUMENT error
func NewInvalidArgumentError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Status:  400,
	}
}

// NewConflictError creates a new CONFLICT error. Callers should retry the
// operation after a conflict.
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
		Err:     err,
	}
}

// NewUnauthenticatedError creates a new UNAUTHENTICATED error
func NewUnauthenticatedError() *AppError {
	return &AppError{
		Code:    ErrCodeUnauthenticated,
		Message: "authentication required",
		Status:  401,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
