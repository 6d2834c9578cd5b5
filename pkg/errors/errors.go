// Package errors provides structured error types for plotdown.
//
// Every failure inside the block render path carries a machine-readable
// [Code] so that callers can tell a malformed payload from a rejected plot
// expression without string matching:
//   - PAYLOAD_*: the fenced block payload could not be used
//   - EXTERNAL_ENGINE: the plotting or markdown engine rejected its input
//   - INVALID_*: caller input (flags, config files) failed validation
//   - INTERNAL_ERROR: unexpected failures, including recovered panics
//
// # Usage
//
//	err := errors.New(errors.ErrCodePayloadShape, "expected array, got %s", kind)
//	if errors.Is(err, errors.ErrCodePayloadShape) {
//	    // degrade to an empty force list
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternalEngine, origErr, "compile %q", expr)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Payload errors
	ErrCodePayloadDecode Code = "PAYLOAD_DECODE"
	ErrCodePayloadShape  Code = "PAYLOAD_SHAPE"

	// Engine errors
	ErrCodeExternalEngine Code = "EXTERNAL_ENGINE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsPayload reports whether err is a payload decode or shape error.
func IsPayload(err error) bool {
	c := GetCode(err)
	return c == ErrCodePayloadDecode || c == ErrCodePayloadShape
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
