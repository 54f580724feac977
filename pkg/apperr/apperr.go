// Package apperr defines the typed error taxonomy shared by services and
// handlers. Each error carries a Kind that maps onto an HTTP status at the
// boundary; components signal failures with these instead of raw strings so
// callers can branch on the kind without parsing messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	Validation Kind = iota + 1
	Duplicate
	Authentication
	Authorization
	NotFound
	Unexpected
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Duplicate:
		return "duplicate"
	case Authentication:
		return "authentication"
	case Authorization:
		return "authorization"
	case NotFound:
		return "not_found"
	case Unexpected:
		return "unexpected"
	}
	return "unknown"
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Duplicate:
		return http.StatusConflict
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error is a typed application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a typed error with the given kind and message.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a typed error that wraps a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, or Unexpected if err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unexpected
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return KindOf(err).HTTPStatus()
}

// Message returns a client-safe message for err. Unexpected causes are not
// leaked to clients.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != Unexpected {
		return ae.Msg
	}
	return "internal server error"
}
