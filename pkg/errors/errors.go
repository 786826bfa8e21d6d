package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error into one of the API error families.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeRateLimited   Code = "RATE_LIMIT_EXCEEDED"
	CodeDependency    Code = "DEPENDENCY_ERROR"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Error carries a classification code alongside a client-safe message
// and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an existing error. A nil err
// yields nil so call sites can wrap unconditionally.
func Wrap(code Code, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

func Wrapf(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// WithFields attaches per-field messages, typically validation failures.
func (e *Error) WithFields(fields map[string]string) *Error {
	e.Fields = fields
	return e
}

// FieldsOf returns the per-field messages carried by err, if any.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message for err. Unclassified errors
// get a generic message so internals never leak to the wire.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeStateConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
