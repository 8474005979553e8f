package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the auth and registration flows. Handlers map these
// to HTTP statuses; everything else is treated as an internal failure.
var (
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password, so login failures don't reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail is returned when registering with an email that
	// already belongs to a charity.
	ErrDuplicateEmail = errors.New("a charity with this email address already exists")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports the first invalid or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewMissingFieldError builds a ValidationError for a required field that
// was left empty.
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
