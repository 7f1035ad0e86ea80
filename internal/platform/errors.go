package platform

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var (
	ErrNotConfigured   = errors.New("credentials not configured")
	ErrDisabled        = errors.New("integration disabled")
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Cause classifies why a platform rejected a post
type Cause string

const (
	CauseNotConfigured Cause = "not_configured"
	CauseInvalidToken  Cause = "invalid_token"
	CausePermission    Cause = "permission"
	CausePolicy        Cause = "policy"
	CauseRateLimited   Cause = "rate_limited"
	CauseRejected      Cause = "rejected"
	CauseTransport     Cause = "transport"
)

// Error is a platform-tagged failure of a single publish attempt
type Error struct {
	Platform   string
	Cause      Cause
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Platform, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notConfigured(platform, message string) *Error {
	return &Error{Platform: platform, Cause: CauseNotConfigured, Message: message, Err: ErrNotConfigured}
}

func transportError(platform string, err error) *Error {
	return &Error{Platform: platform, Cause: CauseTransport, Message: err.Error(), Err: err}
}

func apiError(platform string, cause Cause, status int, message string) *Error {
	return &Error{Platform: platform, Cause: cause, StatusCode: status, Message: message}
}

// CauseOf returns the cause of a platform error, or "" for other errors
func CauseOf(err error) Cause {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Cause
	}
	return ""
}

func asRetrieveError(err error, target **oauth2.RetrieveError) bool {
	return errors.As(err, target) && (*target).Response != nil
}
