// Package errors provides structured error types for reqresolve.
//
// Every failure the resolver can observe is classified by a [Code]. Only
// [ErrCodeInvalidSpec] on the root requirement is fatal to a run; the other
// codes are attached to warnings collected during resolution and degrade the
// affected subtree instead of aborting.
//
// # Error Codes
//
//   - INVALID_*: input that cannot be parsed
//   - REGISTRY_*: failures reaching the package registry
//   - NO_MATCHING_VERSION, LIMIT_REACHED: soft resolution outcomes
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSpec, "no package name in %q", raw)
//	if errors.Is(err, errors.ErrCodeInvalidSpec) {
//	    // reject the input
//	}
//
//	err := errors.Wrap(errors.ErrCodeRegistryUnavailable, origErr, "fetch versions of %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidSpec       Code = "INVALID_SPEC"
	ErrCodeInvalidDependency Code = "INVALID_DEPENDENCY"
	ErrCodeInvalidConstraint Code = "INVALID_CONSTRAINT"
	ErrCodeMalformedVersion  Code = "MALFORMED_VERSION"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Registry errors
	ErrCodeRegistryUnavailable Code = "REGISTRY_UNAVAILABLE"

	// Resolution outcomes
	ErrCodeNoMatchingVersion Code = "NO_MATCHING_VERSION"
	ErrCodeLimitReached      Code = "LIMIT_REACHED"

	// Internal errors
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
// Only the outermost *Error in the chain is consulted, so a wrapped error
// reports the code it was wrapped with.
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
