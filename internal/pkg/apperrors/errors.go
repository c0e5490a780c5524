package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidDNI       = errors.New("invalid DNI format")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrStudentDNIExists = errors.New("student DNI already registered")
	ErrInvalidActivity  = errors.New("invalid activity status")
	ErrInvalidTransport = errors.New("invalid transport method")
)

// Parent errors
var (
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentDNIExists = errors.New("parent DNI already registered")
)

// Admin errors
var (
	ErrAdminNotFound  = errors.New("admin not found")
	ErrAdminDNIExists = errors.New("admin DNI already registered")
)

// Link errors
var (
	ErrLinkCodeNotFound = errors.New("link code not found")
	ErrAlreadyLinked    = errors.New("parent already linked to a student")
	ErrStudentClaimed   = errors.New("student already linked to another parent")
	ErrNotLinked        = errors.New("parent has no linked student")
)

// Pickup errors
var (
	ErrInvalidTransition = errors.New("pickup authorization transition not allowed")
)

// NewInvalidTransitionError creates a custom error for a disallowed pickup transition
func NewInvalidTransitionError(message string) error {
	return &CustomError{
		Err:     ErrInvalidTransition,
		Message: message,
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

