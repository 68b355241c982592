// Package apperr classifies failures seen by the love map client so callers
// can branch on the kind of failure with errors.Is.
//
//	outcome, err := store.Update(ctx, id, fields)
//	if errors.Is(err, apperr.ErrAuth) {
//	    // send the user to the login page
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindTransport  Kind = "TRANSPORT"
	KindAuth       Kind = "AUTH"
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrTransport  = &Error{Kind: KindTransport, Message: "remote unavailable"}
	ErrAuth       = &Error{Kind: KindAuth, Message: "not authenticated"}
	ErrValidation = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrNotFound   = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict   = &Error{Kind: KindConflict, Message: "conflict"}
	ErrInternal   = &Error{Kind: KindInternal, Message: "internal error"}
)

func Transport(err error, msg string) *Error {
	return &Error{Kind: KindTransport, Message: msg, cause: err}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: err}
}

// FromStatus classifies an HTTP response status. It returns nil for 2xx.
// Only 401 means the session is gone. The server answers 403 for places and
// messages that are missing or belong to someone else, so 403 is NotFound.
func FromStatus(status int, msg string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return &Error{Kind: KindAuth, Message: msg}
	case status == http.StatusNotFound, status == http.StatusForbidden:
		return &Error{Kind: KindNotFound, Message: msg}
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return &Error{Kind: KindValidation, Message: msg}
	case status == http.StatusConflict:
		return &Error{Kind: KindConflict, Message: msg}
	default:
		return &Error{Kind: KindTransport, Message: msg}
	}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
