// Package errors provides structured error types for buildport.
//
// Every failure the rewrite engine can produce carries a machine-readable
// code. The codes split into two groups:
//   - fatal codes (NOT_FOUND, INVARIANT_VIOLATION, INVALID_*, IO_ERROR,
//     INTERNAL_ERROR) abort the whole import run
//   - UNUSED_RULE, which is logged and tolerated because rule tables are
//     shared across many import runs
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvariantViolation, "source %s is not in %s", path, target)
//	if errors.IsFatal(err) {
//	    return err
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine errors
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"
	ErrCodeUnusedRule         Code = "UNUSED_RULE"

	// Input validation errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Internal errors
	ErrCodeIO       Code = "IO_ERROR"
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

// IsFatal reports whether err must halt an import run.
// Only UNUSED_RULE is tolerated; any other non-nil error is fatal,
// including errors that carry no code at all.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !Is(err, ErrCodeUnusedRule)
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
