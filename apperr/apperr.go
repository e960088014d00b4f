// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for callers that need to branch on it.
type Code string

const (
	CodeValidation  Code = "VALIDATION_ERROR"
	CodeNotFound    Code = "NOT_FOUND"
	CodeLocked      Code = "LOCKED"
	CodeConflict    Code = "CONFLICT"
	CodeTransientIO Code = "TRANSIENT_IO"
	CodeUnexpected  Code = "UNEXPECTED_SERVER_ERROR"
)

// Error is a coded application error.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and message to err. A nil err stays nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// CodeOf returns the code of the outermost *Error in err's chain.
// Errors that carry no code are reported as CodeUnexpected.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnexpected
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func Validation(message string) *Error {
	return New(CodeValidation, message)
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Locked(message string) *Error {
	return New(CodeLocked, message)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func Transient(cause error, message string) *Error {
	return &Error{Code: CodeTransientIO, Message: message, Cause: cause}
}

func Unexpected(cause error, message string) *Error {
	return &Error{Code: CodeUnexpected, Message: message, Cause: cause}
}

// HTTPStatus maps a code to the status the API answers with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeLocked:
		return http.StatusLocked
	case CodeConflict:
		return http.StatusConflict
	case CodeTransientIO:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromHTTPStatus classifies a non-2xx response seen by a client.
// Server-side failures and throttling are transient; anything else that is
// not one of the known codes is unexpected.
func FromHTTPStatus(status int, message string) *Error {
	switch {
	case status == http.StatusBadRequest:
		return New(CodeValidation, message)
	case status == http.StatusNotFound:
		return New(CodeNotFound, message)
	case status == http.StatusLocked:
		return New(CodeLocked, message)
	case status == http.StatusConflict:
		return New(CodeConflict, message)
	case status == http.StatusTooManyRequests,
		status == http.StatusRequestTimeout,
		status >= 500:
		return New(CodeTransientIO, message)
	default:
		return New(CodeUnexpected, message)
	}
}
