package api

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// retryTransport is a decorator that retries idempotent requests on
// transient failures with exponential backoff and jitter.
type retryTransport struct {
	inner  http.RoundTripper
	config RetryConfig
}

// WithRetry wraps a RoundTripper with retry logic. Requests other than
// GET and HEAD pass through untouched: a repeated submit would record the
// answer twice.
func WithRetry(rt http.RoundTripper, cfg RetryConfig) http.RoundTripper {
	return &retryTransport{inner: rt, config: cfg}
}

func (r *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !idempotent(req.Method) || r.config.MaxAttempts <= 1 {
		return r.inner.RoundTrip(req)
	}

	ctx := req.Context()
	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.RoundTrip(req)
		if !r.shouldRetry(resp, err) {
			return resp, err
		}

		// Last attempt: hand back whatever we got.
		if attempt == r.config.MaxAttempts-1 {
			return resp, err
		}

		wait := r.backoff(attempt, resp)
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	// Unreachable with MaxAttempts > 1.
	return r.inner.RoundTrip(req)
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// shouldRetry determines if an attempt's outcome is retryable.
func (r *retryTransport) shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		// Context errors are never retried.
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
}

// backoff computes the wait duration for the given attempt.
func (r *retryTransport) backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if d := parseRetryAfter(resp.Header.Get("Retry-After")); d > 0 {
			return d
		}
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
