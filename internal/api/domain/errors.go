package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDraftNotFound is returned when a draft does not exist, has been posted or has expired
	ErrDraftNotFound = errors.New("draft not found")

	// ErrDraftExists is returned when a draft id is already taken
	ErrDraftExists = errors.New("draft already exists")

	// ErrInvalidTransition is returned when a draft cannot move to the requested status
	ErrInvalidTransition = errors.New("invalid draft status transition")
)

// ValidationError reports a problem with caller input. Message is safe to show to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
