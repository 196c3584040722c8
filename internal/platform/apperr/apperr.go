// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for the Staffroom API.

Every failure that can reach a client is expressed as an [AppError] carrying a
machine-stable code, a client-safe message and the HTTP status it maps to.

Taxonomy:

  - Authentication: MISSING_TOKEN, INVALID_TOKEN, EXPIRED_TOKEN, MISSING_CREDENTIALS (401).
  - Authorization: FORBIDDEN (403).
  - Input: VALIDATION_ERROR (400), DUPLICATE_EMAIL (406).
  - Lookup: NOT_FOUND (404), USER_DOES_NOT_EXIST (400).
  - Server: INTERNAL_ERROR (500).

Services return these values directly; the respond package renders them.
*/
package apperr

import (
	"errors"
	"net/http"
)

// Machine-stable error codes. Clients switch on these, never on messages.
const (
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeExpiredToken       = "EXPIRED_TOKEN"
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeNotFound           = "NOT_FOUND"
	CodeUserDoesNotExist   = "USER_DOES_NOT_EXIST"
	CodeRateLimited        = "TOO_MANY_REQUESTS"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Staffroom API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an [*AppError] with the same code, so that
// callers can write errors.Is(err, apperr.ExpiredToken()).
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// # Authentication (401)

// MissingToken is returned when a protected route is called without a token.
func MissingToken() *AppError {
	return &AppError{
		Code:       CodeMissingToken,
		Message:    "A valid token is missing!",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken is returned for bad signatures, wrong algorithms and malformed payloads.
func InvalidToken() *AppError {
	return &AppError{
		Code:       CodeInvalidToken,
		Message:    "Token is invalid!",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ExpiredToken is returned once a token's deadline has passed.
func ExpiredToken() *AppError {
	return &AppError{
		Code:       CodeExpiredToken,
		Message:    "Token has expired!",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// MissingCredentials is returned when the login form lacks email or password.
func MissingCredentials() *AppError {
	return &AppError{
		Code:       CodeMissingCredentials,
		Message:    "Missing login credentials!",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Unauthorized creates a generic 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// # Authorization (403)

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// # Input (400 / 406)

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// DuplicateEmail is returned when an employee with the same email already exists.
func DuplicateEmail() *AppError {
	return &AppError{
		Code:       CodeDuplicateEmail,
		Message:    "Employee with email already exists!",
		HTTPStatus: http.StatusNotAcceptable,
	}
}

// # Lookup (404 / 400)

// NotFound creates a 404 [AppError] with the given message.
//
// Example:
//
//	apperr.NotFound("Employee does not exist.")
func NotFound(msg string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    msg,
		HTTPStatus: http.StatusNotFound,
	}
}

// UserDoesNotExist is the single login failure. Unknown emails and wrong
// passwords both produce it so responses cannot be used to enumerate accounts.
func UserDoesNotExist() *AppError {
	return &AppError{
		Code:       CodeUserDoesNotExist,
		Message:    "User does not exist.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited() *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    "Rate limit exceeded",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
