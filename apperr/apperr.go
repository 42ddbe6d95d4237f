// Package apperr defines the failure taxonomy shared by the server mutation
// handlers and the client SDK. Every server mutation re-emits its failures as
// one of these kinds with a user-displayable message; raw store errors never
// cross the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind sentinels. Check with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrPersistenceFailed  = errors.New("persistence failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error carries a taxonomy kind, a message safe to show to the user, and the
// underlying cause (kept server-side, never serialized). Field is set for
// InvalidInput so the caller can point at the offending form field.
type Error struct {
	Kind    error
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }
func (e *Error) Unwrap() error        { return e.Cause }

// New builds an Error with no cause.
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause. Use for store-layer faults so the original error
// stays available for logging while the client sees only the message.
func Wrap(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Invalid builds an InvalidInput error naming the violated field.
func Invalid(field, message string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: message, Field: field}
}

// UserMessage extracts the displayable message. Unknown errors collapse to a
// generic message so nothing low-level leaks.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Something went wrong"
}

// HTTPStatus maps a taxonomy kind to its response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus is the client-side inverse of HTTPStatus. A 401 carrying the
// login failure message maps to InvalidCredentials; any other 401 means the
// session was missing or expired.
func FromStatus(status int, message string) *Error {
	switch status {
	case http.StatusBadRequest:
		return New(ErrInvalidInput, message)
	case http.StatusUnauthorized:
		if message == "Invalid credentials" {
			return New(ErrInvalidCredentials, message)
		}
		return New(ErrUnauthenticated, message)
	case http.StatusForbidden:
		return New(ErrUnauthorized, message)
	case http.StatusNotFound:
		return New(ErrNotFound, message)
	default:
		return New(ErrPersistenceFailed, message)
	}
}
