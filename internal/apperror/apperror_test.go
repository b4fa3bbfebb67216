package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// TABLE-DRIVEN TESTS:
// One slice of cases, one loop. Each case shows up as its own sub-test.

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("Resume"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("User already exists"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials wraps ErrInvalidCredentials",
			err:       InvalidCredentials(),
			target:    ErrInvalidCredentials,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("Unauthorized - No token provided"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "wrapped with fmt.Errorf still matches",
			err:       fmt.Errorf("service/resume: %w", NotFound("Resume")),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("Resume"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidCredentials does NOT match ErrNotFound",
			err:       InvalidCredentials(),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message names the resource only",
			err:         NotFound("Resume"),
			wantMessage: "Resume not found",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("name", "name is required"),
			wantMessage: "name is required",
		},
		{
			name:        "Conflict uses custom message",
			err:         Conflict("User already exists"),
			wantMessage: "User already exists",
		},
		{
			name:        "InvalidCredentials is generic",
			err:         InvalidCredentials(),
			wantMessage: "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("User")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("email", "invalid email format")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
