package api

import (
	"context"
	"net/http"
	"time"

	"github.com/abhisek/classquiz/internal/logger"
	"github.com/abhisek/classquiz/internal/store"
)

// CallRecorder persists API call events.
type CallRecorder interface {
	AppendAPICall(ctx context.Context, data store.APICallEventData) error
}

// loggingTransport is a decorator that records every round trip as an
// event and a log line.
type loggingTransport struct {
	inner    http.RoundTripper
	recorder CallRecorder
	log      *logger.Logger
}

// WithLogging wraps a RoundTripper with call logging. recorder may be nil.
func WithLogging(rt http.RoundTripper, recorder CallRecorder, log *logger.Logger) http.RoundTripper {
	if log == nil {
		log = logger.NewNop()
	}
	return &loggingTransport{inner: rt, recorder: recorder, log: log}
}

func (l *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx := req.Context()

	resp, err := l.inner.RoundTrip(req)

	data := store.APICallEventData{
		Operation: OperationFrom(ctx),
		Method:    req.Method,
		Path:      req.URL.Path,
		LatencyMs: time.Since(start).Milliseconds(),
		RequestID: req.Header.Get(requestIDHeader),
	}
	if resp != nil {
		data.Status = resp.StatusCode
		data.Success = resp.StatusCode/100 == 2
		if !data.Success {
			data.ErrorMessage = resp.Status
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	kv := []interface{}{
		"operation", data.Operation,
		"method", data.Method,
		"path", data.Path,
		"status", data.Status,
		"latency_ms", data.LatencyMs,
		"request_id", data.RequestID,
	}
	if data.Success {
		l.log.Debug("api call", kv...)
	} else {
		l.log.Warn("api call failed", append(kv, "error", data.ErrorMessage)...)
	}

	// Log the event but don't fail the request if logging fails.
	if l.recorder != nil {
		if logErr := l.recorder.AppendAPICall(ctx, data); logErr != nil {
			l.log.Warn("failed to record api call event", "error", logErr)
		}
	}

	return resp, err
}
