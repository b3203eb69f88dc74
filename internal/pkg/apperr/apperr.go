// Package apperr defines the error type that crosses the service/HTTP boundary.
//
// Services return *Error values for failures the caller should see; anything
// else is treated as an internal error by the response layer.
package apperr

import (
	"errors"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeAlreadySubscribed = "ALREADY_SUBSCRIBED"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeUpstream          = "UPSTREAM_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
)

// UnavailableMessage is returned whenever the document store cannot be reached.
const UnavailableMessage = "Database not available. Please check MongoDB connection."

// Error carries an HTTP status, a code and a client-safe message.
// Cause is for server-side logging only.
type Error struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on code so callers can compare against the constructors' results.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Validation creates a 400 error.
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

// AlreadySubscribed creates the 400 conflict returned for duplicate active subscriptions.
func AlreadySubscribed() *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeAlreadySubscribed, Message: "This email is already subscribed"}
}

// NotFound creates a 404 error.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

// Unauthorized creates a 401 error.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: msg}
}

// Forbidden creates a 403 error.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: msg}
}

// Unavailable creates a 503 error for an unreachable document store.
func Unavailable(cause error) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: CodeUnavailable, Message: UnavailableMessage, Cause: cause}
}

// Upstream creates a 500 error for a failed media host or SMTP call.
func Upstream(msg string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeUpstream, Message: msg, Cause: cause}
}

// Internal wraps an unexpected error.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "Internal server error", Cause: cause}
}

// As extracts an *Error from err's chain, or nil.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// From converts any error into an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if ae := As(err); ae != nil {
		return ae
	}
	return Internal(err)
}
