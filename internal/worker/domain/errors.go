package domain

import "errors"

var (
	// ErrDuplicateEvent is returned when every row of an event is already recorded
	ErrDuplicateEvent = errors.New("posting event already recorded")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
