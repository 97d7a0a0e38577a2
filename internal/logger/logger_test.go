package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	got := sanitizeKVs([]interface{}{
		"access_token", "abc",
		"X-CSRFToken", "def",
		"path", "/api/sessions/1/",
		"value", jwtLike,
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"access_token", redacted,
		"X-CSRFToken", redacted,
		"path", "/api/sessions/1/",
		"value", redacted,
		"dangling",
	}, got)
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "quiz").Warn("submit failed", "test_id", 4, "authorization", "Bearer x")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "quiz", fields["component"])
		assert.EqualValues(t, 4, fields["test_id"])
		assert.Equal(t, redacted, fields["authorization"])
	}
}

func TestNewNopDoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Info("hello", "k", "v")
	l.Sync()
}
