package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/classquiz/internal/model"
)

const (
	requestIDHeader = "X-Request-ID"
	csrfHeader      = "X-CSRFToken"
	csrfCookie      = "csrftoken"

	maxBodyBytes = 4 << 20
)

// HTTPGateway implements Gateway over the classroom server's HTTP API.
type HTTPGateway struct {
	base   *url.URL
	client *http.Client
	creds  Credentials
}

var _ Gateway = (*HTTPGateway)(nil)

// Option customizes an HTTPGateway.
type Option func(*HTTPGateway)

// WithTransport replaces the base RoundTripper. Use it to install the
// retry and logging decorators.
func WithTransport(rt http.RoundTripper) Option {
	return func(g *HTTPGateway) { g.client.Transport = rt }
}

// NewHTTPGateway creates a gateway for cfg.BaseURL. The client keeps a
// cookie jar so a csrftoken cookie set by the server is echoed back on
// mutating requests.
func NewHTTPGateway(cfg Config, creds Credentials, opts ...Option) (*HTTPGateway, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	g := &HTTPGateway{
		base:   base,
		client: &http.Client{Timeout: cfg.Timeout, Jar: jar, Transport: http.DefaultTransport},
		creds:  creds,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *HTTPGateway) MyClassrooms(ctx context.Context) ([]model.Classroom, error) {
	var out []model.Classroom
	err := g.do(ctx, OpMyClassrooms, http.MethodGet, "/api/classrooms/my-classroom/", nil, &out)
	return out, err
}

func (g *HTTPGateway) TestsByClassroom(ctx context.Context, classroomID int) ([]model.Test, error) {
	var out []model.Test
	err := g.do(ctx, OpTestsByClassroom, http.MethodGet,
		fmt.Sprintf("/api/name-id-tests/by-classroom/%d", classroomID), nil, &out)
	return out, err
}

func (g *HTTPGateway) QuestionsByTest(ctx context.Context, testID int) ([]model.Question, error) {
	var out []model.Question
	err := g.do(ctx, OpQuestionsByTest, http.MethodGet,
		fmt.Sprintf("/api/test-questions/by-test/%d/", testID), nil, &out)
	return out, err
}

func (g *HTTPGateway) OptionsByQuestion(ctx context.Context, questionID int) ([]model.Option, error) {
	var out []model.Option
	err := g.do(ctx, OpOptionsByQuestion, http.MethodGet,
		fmt.Sprintf("/api/options/by-question/%d/", questionID), nil, &out)
	return out, err
}

func (g *HTTPGateway) UsersByClassroom(ctx context.Context, classroomID int) ([]model.User, error) {
	var out []model.User
	err := g.do(ctx, OpUsersByClassroom, http.MethodGet,
		fmt.Sprintf("/api/users/by-classroom/%d", classroomID), nil, &out)
	return out, err
}

func (g *HTTPGateway) SessionsByTestAndUser(ctx context.Context, testID, userID int) ([]model.Session, error) {
	var out []model.Session
	err := g.do(ctx, OpSessions, http.MethodGet,
		fmt.Sprintf("/api/only-sessions/by-test-and-user/%d/%d/", testID, userID), nil, &out)
	return out, err
}

func (g *HTTPGateway) SessionDetail(ctx context.Context, sessionID int) (*model.SessionDetail, error) {
	var out model.SessionDetail
	if err := g.do(ctx, OpSessionDetail, http.MethodGet,
		fmt.Sprintf("/api/sessions/%d/", sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) SubmitAnswer(ctx context.Context, testID, questionID, optionID int) (*model.SubmitResult, error) {
	body := map[string]int{"selected_option": optionID}
	var out model.SubmitResult
	if err := g.do(ctx, OpSubmitAnswer, http.MethodPost,
		fmt.Sprintf("/test/%d/question/%d/submit/", testID, questionID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) RecordScore(ctx context.Context, testID int) (*model.RecordResult, error) {
	var out model.RecordResult
	if err := g.do(ctx, OpRecordScore, http.MethodPost,
		fmt.Sprintf("/test/%d/record/", testID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *HTTPGateway) DeleteSubmissions(ctx context.Context) error {
	return g.do(ctx, OpDeleteSubmissions, http.MethodPost, "/submissions/delete/", nil, nil)
}

// do sends one request and decodes a 2xx JSON body into out.
func (g *HTTPGateway) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx = WithOperation(ctx, op)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	u := g.base.JoinPath(path)
	// JoinPath drops a trailing slash the server may route on.
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := g.authorize(ctx, req); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode/100 != 2 {
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if out == nil {
		return nil
	}
	if err := validateResponse(op, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidResponseError{Op: op, Body: raw, Err: err}
	}
	return nil
}

// authorize sets the bearer header on every request and the CSRF header
// on mutating ones.
func (g *HTTPGateway) authorize(ctx context.Context, req *http.Request) error {
	if g.creds == nil {
		return nil
	}

	tok, err := g.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("access token: %w", err)
	}
	tok.SetAuthHeader(req)

	if idempotent(req.Method) {
		return nil
	}

	csrf := g.csrfFromJar()
	if csrf == "" {
		csrf, err = g.creds.CSRFToken(ctx)
		if err != nil {
			return fmt.Errorf("csrf token: %w", err)
		}
	}
	if csrf != "" {
		req.Header.Set(csrfHeader, csrf)
	}
	return nil
}

func (g *HTTPGateway) csrfFromJar() string {
	if g.client.Jar == nil {
		return ""
	}
	for _, c := range g.client.Jar.Cookies(g.base) {
		if c.Name == csrfCookie {
			return c.Value
		}
	}
	return ""
}
