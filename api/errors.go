// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-mempool.

package api

import "fmt"

// Common errors used across the library. Structured errors match them by code
// through errors.Is.
var (
	ErrConstruction    = &Error{Code: ErrCodeConstruction, Message: "invalid pool construction"}
	ErrAllocation      = &Error{Code: ErrCodeAllocation, Message: "allocation failed"}
	ErrOutOfRange      = &Error{Code: ErrCodeOutOfRange, Message: "index out of range"}
	ErrEmpty           = &Error{Code: ErrCodeEmpty, Message: "pool is empty"}
	ErrInvalidArgument = &Error{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
	ErrNotSupported    = &Error{Code: ErrCodeNotSupported, Message: "operation not supported"}
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeConstruction
	ErrCodeAllocation
	ErrCodeOutOfRange
	ErrCodeEmpty
	ErrCodeInvalidArgument
	ErrCodeNotSupported
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeConstruction:
		return "construction"
	case ErrCodeAllocation:
		return "allocation"
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeEmpty:
		return "empty"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotSupported:
		return "not_supported"
	default:
		return "unknown"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if len(e.Context) > 0 {
		msg = fmt.Sprintf("%s (context: %+v)", msg, e.Context)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithCause attaches the error that triggered e.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}
