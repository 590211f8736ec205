// Package apperror defines the failure taxonomy shared by all layers.
// Services return these kinds; only the HTTP layer translates them into
// statuses and response bodies.
package apperror

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid identifier")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrUnexpected         = errors.New("unexpected error")
)

// Violation is a single field-level validation failure. Register and the
// issue mutations collect every violation before failing, not just the first.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind       error // one of the sentinels above
	Message    string
	Violations []Violation
	Cause      error // internal detail, logged but never sent to callers
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind and the cause, so errors.Is matches either.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func Validation(violations ...Violation) *Error {
	return &Error{
		Kind:       ErrValidation,
		Message:    "validation failed",
		Violations: violations,
	}
}

func DuplicateEmail(email string) *Error {
	return &Error{
		Kind:    ErrDuplicateEmail,
		Message: "email already registered",
		Cause:   fmt.Errorf("duplicate email %q", email),
	}
}

func InvalidCredentials() *Error {
	// One message for unknown email and wrong password, so responses do not
	// reveal which accounts exist.
	return &Error{Kind: ErrInvalidCredentials, Message: "invalid credentials"}
}

func MissingToken() *Error {
	return &Error{Kind: ErrMissingToken, Message: "no token provided"}
}

func InvalidToken(cause error) *Error {
	return &Error{Kind: ErrInvalidToken, Message: "invalid token", Cause: cause}
}

func NotFound(resource string) *Error {
	return &Error{Kind: ErrNotFound, Message: resource + " not found"}
}

func InvalidID(id string) *Error {
	return &Error{
		Kind:    ErrInvalidID,
		Message: "invalid id format",
		Cause:   fmt.Errorf("malformed id %q", id),
	}
}

// Store classifies a persistence failure: bounded timeouts and cancellations
// become the retryable StoreUnavailable kind, anything else is Unexpected.
func Store(err error) *Error {
	kind := ErrUnexpected
	msg := "internal error"
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		kind = ErrStoreUnavailable
		msg = "store unavailable"
	}
	return &Error{Kind: kind, Message: msg, Cause: err}
}

func Unexpected(err error) *Error {
	return &Error{Kind: ErrUnexpected, Message: "internal error", Cause: err}
}
