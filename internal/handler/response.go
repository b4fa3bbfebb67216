package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// Without helpers, every handler repeats the same boilerplate:
//   w.Header().Set("Content-Type", "application/json")
//   w.WriteHeader(statusCode)
//   json.NewEncoder(w).Encode(data)
//
// With helpers, handlers are cleaner and more consistent:
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, h.logger, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from our API has the same shape:
//   {"error": "not_found", "message": "Resume not found"}
//
// Unexpected failures add a "detail" field with the underlying error text.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/resume-builder/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`            // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`          // Human-readable description
	Detail  string `json:"detail,omitempty"` // Set only for internal errors
}

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code must be set BEFORE writing the body. Once
// Encode writes, the headers are sent and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
//
//	ErrConflict, ErrInvalidCredentials, ErrValidation → 400
//	ErrUnauthorized                                   → 401
//	ErrNotFound                                       → 404
//	anything else                                     → 500
//
// A duplicate registration is a 400, not a 409: clients of this API treat
// every "fix your input" failure the same way.
//
// errors.Is() walks the whole chain, so a service may wrap an AppError with
// fmt.Errorf("...: %w", err) and the mapping still holds.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusBadRequest
			errorType = "invalid_credentials"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Error:   errorType,
				Message: appErr.Message,
			})
			return
		}
	}

	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
		Detail:  err.Error(),
	})
}

// decodeJSON reads a single JSON value from the request body into dst.
//
// An empty body decodes as "{}" so endpoints whose fields are all optional
// accept a bare request. Bodies cut off by http.MaxBytesReader and syntax
// errors are both reported as validation errors on "body".
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperror.ValidationFailed("body", "Request body too large")
	}
	return apperror.ValidationFailed("body", "Invalid JSON body")
}
