package domain

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated is returned when a request carries no usable session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionTimeout is returned when a session's idle time exceeded its lifetime.
	ErrSessionTimeout = errors.New("session timed out")
	// ErrInvalidCredentials deliberately conflates unknown user and wrong
	// password so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWrongPassword is returned when the current-password check of an
	// account change fails.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrEmailTaken is returned when an email address is already registered.
	ErrEmailTaken = errors.New("email already in use")
	// ErrNotAuthorized is returned when a session acts on a resource owned by
	// another user, or when the resource does not exist. The two cases are
	// indistinguishable on purpose.
	ErrNotAuthorized = errors.New("unauthorized action")
	// ErrCSRF is returned when CSRF verification fails on a mutating request.
	ErrCSRF = errors.New("invalid csrf token")
)

// ValidationError carries every violated input rule, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid input"
	}
	return strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from one or more violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
