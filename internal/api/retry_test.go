package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type stubTransport struct {
	responses []stubResult
	calls     int
}

type stubResult struct {
	status int
	err    error
	header http.Header
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := s.responses[s.calls]
	s.calls++
	if r.err != nil {
		return nil, r.err
	}
	h := r.header
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{
		StatusCode: r.status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Request:    req,
	}, nil
}

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func newReq(t *testing.T, method string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, "http://example.test/api/x/", nil)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestRetryRecoversFromServerError(t *testing.T) {
	stub := &stubTransport{responses: []stubResult{{status: 502}, {status: 503}, {status: 200}}}
	rt := WithRetry(stub, fastRetry(3))

	resp, err := rt.RoundTrip(newReq(t, http.MethodGet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if stub.calls != 3 {
		t.Errorf("calls = %d, want 3", stub.calls)
	}
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	stub := &stubTransport{responses: []stubResult{{status: 500}, {status: 500}}}
	rt := WithRetry(stub, fastRetry(2))

	resp, err := rt.RoundTrip(newReq(t, http.MethodGet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if stub.calls != 2 {
		t.Errorf("calls = %d, want 2", stub.calls)
	}
}

func TestRetryNeverRepeatsPost(t *testing.T) {
	stub := &stubTransport{responses: []stubResult{{status: 503}}}
	rt := WithRetry(stub, fastRetry(3))

	resp, err := rt.RoundTrip(newReq(t, http.MethodPost))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1", stub.calls)
	}
}

func TestRetryDoesNotRetryClientErrors(t *testing.T) {
	stub := &stubTransport{responses: []stubResult{{status: 404}}}
	rt := WithRetry(stub, fastRetry(3))

	if _, err := rt.RoundTrip(newReq(t, http.MethodGet)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1", stub.calls)
	}
}

func TestRetryTransportErrors(t *testing.T) {
	stub := &stubTransport{responses: []stubResult{{err: errors.New("connection reset")}, {status: 200}}}
	rt := WithRetry(stub, fastRetry(3))

	resp, err := rt.RoundTrip(newReq(t, http.MethodGet))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 || stub.calls != 2 {
		t.Errorf("status = %d calls = %d, want 200 after 2 calls", resp.StatusCode, stub.calls)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	stub := &stubTransport{responses: []stubResult{{err: context.Canceled}}}
	rt := WithRetry(stub, fastRetry(3))

	_, err := rt.RoundTrip(newReq(t, http.MethodGet))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1", stub.calls)
	}
}

func TestBackoffHonoursRetryAfter(t *testing.T) {
	r := &retryTransport{config: fastRetry(3)}
	resp := &http.Response{StatusCode: 429, Header: http.Header{"Retry-After": []string{"2"}}}
	if got := r.backoff(0, resp); got != 2*time.Second {
		t.Errorf("backoff = %v, want 2s", got)
	}
}

func TestBackoffCapsAtMaxWait(t *testing.T) {
	r := &retryTransport{config: RetryConfig{InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}
	got := r.backoff(5, nil)
	// MaxWait plus at most 20% jitter.
	if got > 2400*time.Millisecond {
		t.Errorf("backoff = %v, want <= 2.4s", got)
	}
}
