// Package apperror defines the application's error taxonomy.
//
// Every failure a caller can act on is an *AppError wrapping one of the
// sentinel values below. The HTTP layer maps sentinels to status codes with
// errors.Is, so the service and repository layers never deal in HTTP.
//
//	ErrValidation         → 400 validation_error
//	ErrConflict           → 400 conflict
//	ErrInvalidCredentials → 400 invalid_credentials
//	ErrUnauthorized       → 401 unauthorized
//	ErrNotFound           → 404 not_found
//	anything else         → 500 internal_error
package apperror

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("Validation Error")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. The message deliberately carries no
// identifier: a resource owned by someone else must read exactly like one
// that does not exist.
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: resource + " not found",
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCredentials is the single error returned for every failed login,
// whether the email is unknown or the password is wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid credentials",
	}
}

// Unauthorized returns an AppError for a missing or rejected session token.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
