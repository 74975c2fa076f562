package tba

import (
	"errors"
	"fmt"
)

// ErrMissingAuthKey means no TBA auth key is configured. Surfaced once as a
// startup warning and per request as a hard failure.
var ErrMissingAuthKey = errors.New("tba: auth key not configured")

// ErrRateLimited means the upstream itself signaled HTTP 429. The internal
// limiter should make this rare; callers must not retry within the call.
var ErrRateLimited = errors.New("tba: upstream rate limit exceeded")

// APIError is a non-2xx upstream response other than a rate limit.
type APIError struct {
	StatusCode int
	Status     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tba: %s returned %s", e.Path, e.Status)
}

// UnavailableError is a transport-level failure reaching the upstream.
// Retry policy, if any, belongs to the caller.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("tba: %s unreachable: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
