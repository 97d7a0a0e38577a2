package demoapi

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/classquiz/internal/model"
)

type testClient struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	token  string
}

func newTestClient(t *testing.T, s *Server, user string) *testClient {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	tok, err := s.IssueToken(user, time.Hour)
	require.NoError(t, err)

	return &testClient{t: t, srv: srv, client: &http.Client{Jar: jar}, token: tok}
}

func (c *testClient) do(method, path, body string, csrf bool) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if csrf {
		u := req.URL
		for _, ck := range c.client.Jar.Cookies(u) {
			if ck.Name == csrfCookie {
				req.Header.Set(csrfHeader, ck.Value)
			}
		}
	}
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRequiresBearer(t *testing.T) {
	s := New()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/classrooms/my-classroom/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRejectsExpiredToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))
	c := newTestClient(t, s, "alice")

	now = now.Add(2 * time.Hour)
	resp := c.do(http.MethodGet, "/api/classrooms/my-classroom/", "", false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMutationRequiresCSRF(t *testing.T) {
	c := newTestClient(t, New(), "alice")

	resp := c.do(http.MethodPost, "/submissions/delete/", "", false)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A safe request hands out the cookie; echoing it back succeeds.
	c.do(http.MethodGet, "/api/classrooms/my-classroom/", "", false)
	resp = c.do(http.MethodPost, "/submissions/delete/", "", true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSubmitMessages(t *testing.T) {
	c := newTestClient(t, New(), "alice")
	c.do(http.MethodGet, "/api/classrooms/my-classroom/", "", false)

	resp := c.do(http.MethodPost, "/test/10/question/100/submit/", `{"selected_option":1000}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Correct answer", decode[model.SubmitResult](t, resp).Message)

	resp = c.do(http.MethodPost, "/test/10/question/101/submit/", `{"selected_option":1010}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AMAI!\nCorrect option: Cow", decode[model.SubmitResult](t, resp).Message)

	resp = c.do(http.MethodPost, "/test/10/question/110/submit/", `{"selected_option":1100}`, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "question from another test")
}

func TestRecordCreatesSession(t *testing.T) {
	s := New(WithClock(func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }))
	c := newTestClient(t, s, "alice")
	c.do(http.MethodGet, "/api/classrooms/my-classroom/", "", false)

	c.do(http.MethodPost, "/test/10/question/100/submit/", `{"selected_option":1000}`, true)
	c.do(http.MethodPost, "/test/10/question/101/submit/", `{"selected_option":1010}`, true)
	require.Equal(t, 2, s.PendingSubmissions("alice"))

	resp := c.do(http.MethodPost, "/test/10/record/", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[model.RecordResult](t, resp)
	assert.Equal(t, "Total score: 1/3!", rec.Message)
	assert.Len(t, rec.TestRecordIDs, 3)
	assert.Equal(t, 0, s.PendingSubmissions("alice"))

	resp = c.do(http.MethodGet, "/api/only-sessions/by-test-and-user/10/2/", "", false)
	sessions := decode[[]model.Session](t, resp)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].Timestamp)
	assert.Equal(t, "2025-03-04 05:06", sessions[0].Timestamp.UTC().Format("2006-01-02 15:04"))

	resp = c.do(http.MethodGet, "/api/sessions/1/", "", false)
	detail := decode[model.SessionDetail](t, resp)
	require.Len(t, detail.TestRecords, 3)
	assert.Equal(t, "Which animal barks?", detail.TestRecords[0].QuestionName)
	assert.Equal(t, "Dog", detail.TestRecords[0].SelectedOptionName)
	require.NotNil(t, detail.TestRecords[0].Question)
	assert.Len(t, detail.TestRecords[0].Question.Options, 3)
	assert.Equal(t, 1, detail.TestRecords[2].TotalRecordedScore)
}

func TestUsersAndTestsByClassroom(t *testing.T) {
	c := newTestClient(t, New(), "teacher")

	users := decode[[]model.User](t, c.do(http.MethodGet, "/api/users/by-classroom/1", "", false))
	assert.Len(t, users, 3)

	tests := decode[[]model.Test](t, c.do(http.MethodGet, "/api/name-id-tests/by-classroom/1", "", false))
	assert.Equal(t, []model.Test{{ID: 10, Name: "Animals"}, {ID: 11, Name: "Colours"}}, tests)

	empty := decode[[]model.Test](t, c.do(http.MethodGet, "/api/name-id-tests/by-classroom/99", "", false))
	assert.Empty(t, empty)
}
