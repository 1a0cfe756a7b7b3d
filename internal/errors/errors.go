// Package errors provides coded domain errors for the settings engine.
//
// Usage:
//
//	// In the engine - return typed errors
//	if !field.Known() {
//	    return errors.Validationf("unknown field %q", field)
//	}
//
//	// At the boundary - check with errors.Is
//	if errors.Is(err, errors.ErrPersistence) {
//	    // tell the user the save failed, the old value is back
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeValidation     Code = "VALIDATION"
	CodePersistence    Code = "PERSISTENCE"
	CodeNotInitialized Code = "NOT_INITIALIZED"
	CodeInvalidState   Code = "INVALID_STATE"
	CodeNotFound       Code = "NOT_FOUND"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeInternal       Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeInvalidState:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotInitialized:
		return http.StatusServiceUnavailable
	case CodePersistence:
		return http.StatusBadGateway
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation     = &Error{Code: CodeValidation, Message: "validation error"}
	ErrPersistence    = &Error{Code: CodePersistence, Message: "persistence error"}
	ErrNotInitialized = &Error{Code: CodeNotInitialized, Message: "settings not loaded yet"}
	ErrInvalidState   = &Error{Code: CodeInvalidState, Message: "invalid state"}
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal       = &Error{Code: CodeInternal, Message: "internal error"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Persistence wraps a store failure.
func Persistence(err error, msg string) *Error {
	return &Error{Code: CodePersistence, Message: msg, cause: err}
}

// InvalidState creates an invalid state error.
func InvalidState(msg string) *Error {
	return &Error{Code: CodeInvalidState, Message: msg}
}

// InvalidStatef creates an invalid state error with formatted message.
func InvalidStatef(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
