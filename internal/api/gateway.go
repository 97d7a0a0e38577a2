// Package api is the client side of the classroom quiz HTTP API.
package api

import (
	"context"
	"time"

	"github.com/abhisek/classquiz/internal/model"
)

// Gateway is the set of remote calls the engines depend on.
// Implementations must be safe for concurrent use.
type Gateway interface {
	// MyClassrooms returns the classrooms of the authenticated user.
	MyClassrooms(ctx context.Context) ([]model.Classroom, error)

	TestsByClassroom(ctx context.Context, classroomID int) ([]model.Test, error)

	// QuestionsByTest returns the questions of a test in server order.
	QuestionsByTest(ctx context.Context, testID int) ([]model.Question, error)

	OptionsByQuestion(ctx context.Context, questionID int) ([]model.Option, error)

	UsersByClassroom(ctx context.Context, classroomID int) ([]model.User, error)

	SessionsByTestAndUser(ctx context.Context, testID, userID int) ([]model.Session, error)

	SessionDetail(ctx context.Context, sessionID int) (*model.SessionDetail, error)

	// SubmitAnswer posts the selected option for a question.
	SubmitAnswer(ctx context.Context, testID, questionID, optionID int) (*model.SubmitResult, error)

	// RecordScore turns the standing submissions for a test into a
	// recorded session.
	RecordScore(ctx context.Context, testID int) (*model.RecordResult, error)

	// DeleteSubmissions discards all standing submissions of the user.
	DeleteSubmissions(ctx context.Context) error
}

// Operation labels attached to each call for logging.
const (
	OpMyClassrooms      = "classrooms"
	OpTestsByClassroom  = "tests"
	OpQuestionsByTest   = "questions"
	OpOptionsByQuestion = "options"
	OpUsersByClassroom  = "users"
	OpSessions          = "sessions"
	OpSessionDetail     = "session-detail"
	OpSubmitAnswer      = "submit-answer"
	OpRecordScore       = "record-score"
	OpDeleteSubmissions = "delete-submissions"
)

// Config holds HTTP gateway configuration.
type Config struct {
	// BaseURL is the server root, e.g. "https://quiz.example.com".
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single call including retries. Default: 15s.
	Timeout time.Duration `yaml:"timeout"`

	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig configures retry behavior for transient failures.
// Only idempotent (GET) requests are retried.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 15 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 300 * time.Millisecond,
			MaxWait:     3 * time.Second,
			Multiplier:  2.0,
		},
	}
}
