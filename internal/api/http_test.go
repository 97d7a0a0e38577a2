package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/classquiz/internal/demoapi"
	"github.com/abhisek/classquiz/internal/store"
)

type memRecorder struct {
	mu    sync.Mutex
	calls []store.APICallEventData
}

func (m *memRecorder) AppendAPICall(_ context.Context, data store.APICallEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, data)
	return nil
}

func newDemoGateway(t *testing.T, user string) (*HTTPGateway, *demoapi.Server, *memRecorder) {
	t.Helper()
	srv := demoapi.New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tok, err := srv.IssueToken(user, time.Hour)
	require.NoError(t, err)

	rec := &memRecorder{}
	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL
	gw, err := New(cfg, StaticCredentials(tok, ""), rec, nil)
	require.NoError(t, err)
	return gw, srv, rec
}

func TestGatewayReadCalls(t *testing.T) {
	gw, _, rec := newDemoGateway(t, "alice")
	ctx := context.Background()

	classrooms, err := gw.MyClassrooms(ctx)
	require.NoError(t, err)
	require.Len(t, classrooms, 1)
	assert.Equal(t, "Class 3B", classrooms[0].Name)

	tests, err := gw.TestsByClassroom(ctx, classrooms[0].ID)
	require.NoError(t, err)
	require.Len(t, tests, 2)

	questions, err := gw.QuestionsByTest(ctx, tests[0].ID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "/media/sounds/q100.mp3", questions[0].QuestionSound)

	options, err := gw.OptionsByQuestion(ctx, questions[0].ID)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.True(t, options[0].IsCorrect)

	users, err := gw.UsersByClassroom(ctx, classrooms[0].ID)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	assert.Len(t, rec.calls, 5)
	assert.Equal(t, OpMyClassrooms, rec.calls[0].Operation)
	assert.Equal(t, "/api/classrooms/my-classroom/", rec.calls[0].Path)
	assert.True(t, rec.calls[0].Success)
	assert.NotEmpty(t, rec.calls[0].RequestID)
}

func TestGatewayAnswerAndRecordFlow(t *testing.T) {
	gw, srv, _ := newDemoGateway(t, "alice")
	ctx := context.Background()

	// Prime the csrftoken cookie.
	_, err := gw.MyClassrooms(ctx)
	require.NoError(t, err)

	require.NoError(t, gw.DeleteSubmissions(ctx))

	res, err := gw.SubmitAnswer(ctx, 10, 100, 1000)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect())

	res, err = gw.SubmitAnswer(ctx, 10, 101, 1010)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect())
	assert.Equal(t, "AMAI!\nCorrect option: Cow", res.Message)
	assert.Equal(t, 2, srv.PendingSubmissions("alice"))

	recRes, err := gw.RecordScore(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Total score: 1/3!", recRes.Message)

	sessions, err := gw.SessionsByTestAndUser(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	detail, err := gw.SessionDetail(ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.Len(t, detail.TestRecords, 3)
}

func TestGatewayMutationUsesConfiguredCSRFWithoutCookie(t *testing.T) {
	srv := demoapi.New()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	tok, err := srv.IssueToken("alice", time.Hour)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL
	gw, err := NewHTTPGateway(cfg, StaticCredentials(tok, "not-the-cookie"))
	require.NoError(t, err)

	err = gw.DeleteSubmissions(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGatewaySendsHeaders(t *testing.T) {
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Correct answer"}`))
	}))
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL
	gw, err := NewHTTPGateway(cfg, StaticCredentials("opaque-token", "csrf-123"))
	require.NoError(t, err)

	_, err = gw.SubmitAnswer(context.Background(), 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", got.Get("Authorization"))
	assert.Equal(t, "csrf-123", got.Get("X-CSRFToken"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestGatewayUnauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"nope"}`))
	}))
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL
	gw, err := NewHTTPGateway(cfg, StaticCredentials("t", ""))
	require.NoError(t, err)

	_, err = gw.MyClassrooms(context.Background())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestGatewayRejectsMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"no id"}]`))
	}))
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = ts.URL
	gw, err := NewHTTPGateway(cfg, StaticCredentials("t", ""))
	require.NoError(t, err)

	_, err = gw.MyClassrooms(context.Background())
	var inv *InvalidResponseError
	assert.ErrorAs(t, err, &inv)
}

func TestNewHTTPGatewayValidatesBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "not a url"
	_, err := NewHTTPGateway(cfg, nil)
	assert.Error(t, err)
}
