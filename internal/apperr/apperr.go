package apperr

import (
	"errors"
	"net/http"
)

// Error is an operational API error: it carries the HTTP status that should
// reach the client together with a client-safe message. Anything that is not
// an *Error is treated as an unexpected internal failure by the HTTP layer.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

func Wrap(statusCode int, message string, err error) *Error {
	return &Error{StatusCode: statusCode, Message: message, Err: err}
}

func InvalidArgument(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthenticated(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

func NotImplemented(message string) *Error {
	return New(http.StatusNotImplemented, message)
}

func ServiceUnavailable(message string) *Error {
	return New(http.StatusBadGateway, message)
}

// From extracts the operational error from err, if any.
func From(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the HTTP status for err, defaulting unknown errors to 500.
func StatusOf(err error) int {
	if ae, ok := From(err); ok {
		return ae.StatusCode
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message for err. Unknown errors never
// leak their internals to the client.
func MessageOf(err error) string {
	if ae, ok := From(err); ok {
		return ae.Message
	}
	return "An unexpected internal server error occurred."
}
