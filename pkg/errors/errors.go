// Package errors provides structured error types for the typeshed metadata tools.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Validation of a METADATA.toml record fails with ErrCodeSchema; the message
// always names the offending distribution and field. Lower-layer failures keep
// their own codes (ErrCodeParse for TOML syntax, ErrCodeNotFound for a missing
// record file) so callers can tell a broken record apart from a missing one.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSchema, "metadata for %q: unexpected field %q", dist, field)
//	if errors.Is(err, errors.ErrCodeSchema) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeParse, origErr, "invalid TOML in %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// ErrCodeSchema marks a metadata record that failed validation:
	// an unrecognized field, a wrong type, an invalid enum value, or a
	// failed cross-reference between fields.
	ErrCodeSchema Code = "SCHEMA_VIOLATION"

	// ErrCodeCycle marks a cyclic internal dependency chain discovered
	// while resolving a transitive closure.
	ErrCodeCycle Code = "DEPENDENCY_CYCLE"

	// ErrCodeParse marks malformed TOML syntax, surfaced from the decoder.
	ErrCodeParse Code = "PARSE_ERROR"

	// ErrCodeNotFound marks a distribution without a METADATA.toml record.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodePlatform marks a caller passing a platform outside the
	// supported enum to an accessor. This is a programming error, not a
	// data error.
	ErrCodePlatform Code = "UNKNOWN_PLATFORM"

	// ErrCodeInternal marks unexpected internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
