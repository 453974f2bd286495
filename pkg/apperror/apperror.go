package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the buckets the HTTP layer maps to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindCredential
	KindOTP
	KindNotFound
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindCredential:
		return "credential"
	case KindOTP:
		return "otp"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error carries a stable code and a message that is safe to show to clients.
// The wrapped error is for logs only.
type Error struct {
	kind Kind
	code string
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.code, e.err)
	}
	return e.code + ": " + e.msg
}

func (e *Error) Kind() Kind      { return e.kind }
func (e *Error) Code() string    { return e.code }
func (e *Error) Message() string { return e.msg }
func (e *Error) Unwrap() error   { return e.err }

// Is matches on code so sentinel values declared with New work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// StatusCode maps the kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.kind {
	case KindValidation, KindConflict, KindCredential, KindOTP:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, code, msg string) *Error {
	return &Error{kind: kind, code: code, msg: msg}
}

// Wrap returns a copy of e that carries cause.
func (e *Error) Wrap(cause error) *Error {
	return &Error{kind: e.kind, code: e.code, msg: e.msg, err: cause}
}

// NewInternal hides cause behind a generic message.
func NewInternal(code string, cause error) *Error {
	return &Error{kind: KindInternal, code: code, msg: "Internal server error", err: cause}
}

// From extracts an *Error, converting anything else into an internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return NewInternal("INTERNAL", err)
}
