package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnauthorized matches responses rejected for missing or bad credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrCredentialsExpired indicates the configured access token has expired
// and no request was sent.
var ErrCredentialsExpired = errors.New("access token expired")

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
}

// Is makes 401 and 403 responses match ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// InvalidResponseError indicates a 2xx response whose body does not
// match the expected shape.
type InvalidResponseError struct {
	Op   string
	Body []byte
	Err  error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }
