// Package demoapi is an in-memory classroom quiz server implementing the
// same HTTP contract as the production backend. It backs the gateway
// tests and the demo-server command.
package demoapi

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/classquiz/internal/logger"
	"github.com/abhisek/classquiz/internal/model"
)

const (
	csrfCookie = "csrftoken"
	csrfHeader = "X-CSRFToken"
)

type submission struct {
	testID     int
	questionID int
	optionID   int
	score      int
}

type storedSession struct {
	id        int
	testID    int
	userID    int
	timestamp time.Time
	records   []model.TestRecord
}

// Server is the in-memory demo backend.
type Server struct {
	mu   sync.Mutex
	data Dataset

	// submissions are the standing answers per user id.
	submissions map[int][]submission
	sessions    []storedSession
	nextSession int
	nextRecord  int

	secret []byte
	now    func() time.Time
	log    *logger.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithDataset replaces the seed data.
func WithDataset(d Dataset) Option {
	return func(s *Server) { s.data = d }
}

// WithSecret sets the token signing key. A random key is used otherwise.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// WithClock overrides the server's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger enables request logging.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a demo server seeded with SeedData.
func New(opts ...Option) *Server {
	s := &Server{
		data:        SeedData(),
		submissions: map[int][]submission{},
		nextSession: 1,
		nextRecord:  1,
		now:         time.Now,
		log:         logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.secret) == 0 {
		s.secret = make([]byte, 32)
		if _, err := rand.Read(s.secret); err != nil {
			panic(fmt.Sprintf("demoapi: generate secret: %v", err))
		}
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLog, middleware.Recoverer)
	r.Use(s.requireBearer, s.csrf)

	r.Route("/api", func(r chi.Router) {
		r.Get("/classrooms/my-classroom/", s.handleMyClassrooms)
		r.Get("/name-id-tests/by-classroom/{classroomID}", s.handleTests)
		r.Get("/test-questions/by-test/{testID}/", s.handleQuestions)
		r.Get("/options/by-question/{questionID}/", s.handleOptions)
		r.Get("/users/by-classroom/{classroomID}", s.handleUsers)
		r.Get("/only-sessions/by-test-and-user/{testID}/{userID}/", s.handleSessions)
		r.Get("/sessions/{sessionID}/", s.handleSessionDetail)
	})
	r.Post("/test/{testID}/question/{questionID}/submit/", s.handleSubmit)
	r.Post("/test/{testID}/record/", s.handleRecord)
	r.Post("/submissions/delete/", s.handleDeleteSubmissions)

	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleMyClassrooms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, _ := s.userByName(currentUser(r))
	var out []model.Classroom
	for _, c := range s.data.Classrooms {
		if s.isMember(c.ID, user.ID) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		writeDetail(w, http.StatusNotFound, "User is not associated with any classroom")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTests(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "classroomID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.data.Tests[id]))
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "testID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.data.Questions[id]))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "questionID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.data.Options[id]))
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "classroomID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.User{}
	for _, uid := range s.data.Members[id] {
		if u, ok := s.userByID(uid); ok {
			out = append(out, u)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	testID, ok := intParam(w, r, "testID")
	if !ok {
		return
	}
	userID, ok := intParam(w, r, "userID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Session{}
	for _, sess := range s.sessions {
		if sess.testID == testID && sess.userID == userID {
			ts := sess.timestamp
			out = append(out, model.Session{ID: sess.id, Timestamp: &ts})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "sessionID")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.id == id {
			writeJSON(w, http.StatusOK, model.SessionDetail{ID: sess.id, TestRecords: sess.records})
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	testID, ok := intParam(w, r, "testID")
	if !ok {
		return
	}
	questionID, ok := intParam(w, r, "questionID")
	if !ok {
		return
	}
	var body struct {
		SelectedOption int `json:"selected_option"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.questionInTest(testID, questionID) {
		writeDetail(w, http.StatusNotFound, "Question not found.")
		return
	}
	var selected, correct *model.Option
	for i, o := range s.data.Options[questionID] {
		if o.ID == body.SelectedOption {
			selected = &s.data.Options[questionID][i]
		}
		if o.IsCorrect {
			correct = &s.data.Options[questionID][i]
		}
	}
	if selected == nil || correct == nil {
		writeDetail(w, http.StatusNotFound, "Option not found.")
		return
	}

	score := 0
	if selected.IsCorrect {
		score = 1
	}
	user, _ := s.userByName(currentUser(r))
	s.submissions[user.ID] = append(s.submissions[user.ID], submission{
		testID: testID, questionID: questionID, optionID: selected.ID, score: score,
	})

	message := model.CorrectAnswerMessage
	if !selected.IsCorrect {
		message = fmt.Sprintf("AMAI!\nCorrect option: %s", correct.Name)
	}
	writeJSON(w, http.StatusOK, model.SubmitResult{Success: true, Message: message})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	testID, ok := intParam(w, r, "testID")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	questions, ok := s.data.Questions[testID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}
	user, _ := s.userByName(currentUser(r))

	sess := storedSession{
		id:        s.nextSession,
		testID:    testID,
		userID:    user.ID,
		timestamp: s.now().UTC().Truncate(time.Minute),
	}
	s.nextSession++

	var kept []submission
	var ids []int
	total := 0
	for _, sub := range s.submissions[user.ID] {
		if sub.testID != testID {
			kept = append(kept, sub)
			continue
		}
		rec := model.TestRecord{
			ID:                 s.nextRecord,
			QuestionName:       s.questionName(sub.questionID),
			Question:           s.recordQuestion(sub.questionID),
			SelectedOptionName: s.optionName(sub.questionID, sub.optionID),
			RecordedScore:      sub.score,
		}
		s.nextRecord++
		sess.records = append(sess.records, rec)
		ids = append(ids, rec.ID)
		total += sub.score
	}
	s.submissions[user.ID] = kept

	totalRec := model.TestRecord{ID: s.nextRecord, TotalRecordedScore: total}
	s.nextRecord++
	sess.records = append(sess.records, totalRec)
	ids = append(ids, totalRec.ID)
	s.sessions = append(s.sessions, sess)

	writeJSON(w, http.StatusOK, model.RecordResult{
		Success:       true,
		Message:       fmt.Sprintf("Total score: %d/%d!", total, len(questions)),
		TestRecordIDs: ids,
	})
}

func (s *Server) handleDeleteSubmissions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, _ := s.userByName(currentUser(r))
	delete(s.submissions, user.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// PendingSubmissions returns how many standing answers username has.
func (s *Server) PendingSubmissions(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.userByName(username)
	if !ok {
		return 0
	}
	return len(s.submissions[u.ID])
}

func (s *Server) userByName(name string) (model.User, bool) {
	for _, u := range s.data.Users {
		if u.Username == name {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *Server) userByID(id int) (model.User, bool) {
	for _, u := range s.data.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *Server) isMember(classroomID, userID int) bool {
	for _, id := range s.data.Members[classroomID] {
		if id == userID {
			return true
		}
	}
	return false
}

func (s *Server) questionInTest(testID, questionID int) bool {
	for _, q := range s.data.Questions[testID] {
		if q.ID == questionID {
			return true
		}
	}
	return false
}

func (s *Server) questionName(questionID int) string {
	for _, qs := range s.data.Questions {
		for _, q := range qs {
			if q.ID == questionID {
				return q.Name
			}
		}
	}
	return ""
}

func (s *Server) recordQuestion(questionID int) *model.RecordQuestion {
	for _, qs := range s.data.Questions {
		for _, q := range qs {
			if q.ID == questionID {
				return &model.RecordQuestion{
					ID:            q.ID,
					Name:          q.Name,
					QuestionSound: q.QuestionSound,
					Options:       append([]model.Option(nil), s.data.Options[q.ID]...),
				}
			}
		}
	}
	return nil
}

func (s *Server) optionName(questionID, optionID int) string {
	for _, o := range s.data.Options[questionID] {
		if o.ID == optionID {
			return o.Name
		}
	}
	return ""
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return v, true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
