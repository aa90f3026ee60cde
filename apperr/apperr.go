// Package apperr defines the failure kinds every domain operation reports.
// Handlers translate a Kind to an HTTP status; domain code never touches
// status codes directly.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// Unauthorized is produced by the auth middleware, before any domain
	// check runs. It is listed here so the whole taxonomy maps in one place.
	Unauthorized     Kind = "unauthorized"
	Forbidden        Kind = "forbidden"
	NotFound         Kind = "not_found"
	InvalidState     Kind = "invalid_state"
	Conflict         Kind = "conflict"
	ValidationFailed Kind = "validation_failed"
	Internal         Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap marks an unexpected failure (storage, encoding) as Internal while
// keeping the cause for the logs.
func Wrap(message string, cause error) *Error {
	return &Error{Kind: Internal, Message: message, Cause: cause}
}

// From returns err as *Error, wrapping unknown errors as Internal so that
// nothing is ever silently swallowed on the way out.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap("unexpected error", err)
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case InvalidState, ValidationFailed:
		return http.StatusUnprocessableEntity
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
