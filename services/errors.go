package services

import (
	"errors"
	"fmt"

	"salon-booking/sessions"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = sessions.ErrUnauthenticated
	ErrNoDraft            = errors.New("no pending booking")
	ErrPersistence        = errors.New("storage failure")
)

// MissingFieldError reports a required form field left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ErrMissingField matches any *MissingFieldError with errors.Is.
var ErrMissingField = &MissingFieldError{}

func (e *MissingFieldError) Is(target error) bool {
	_, ok := target.(*MissingFieldError)
	return ok
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
