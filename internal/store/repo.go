package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// APICallEventData captures a single HTTP round trip to the classroom API.
type APICallEventData struct {
	Operation    string
	Method       string
	Path         string
	Status       int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestID    string
}

// APICallRecord is a stored API call event.
type APICallRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	APICallEventData
}

// APIUsageStats aggregates API calls for one operation.
type APIUsageStats struct {
	Operation    string
	Calls        int
	Failures     int
	AvgLatencyMs int64
}

// AnswerEventData captures one answer submitted during a test attempt.
type AnswerEventData struct {
	TestID     int
	QuestionID int
	OptionID   int
	Correct    bool
	Message    string
}

// ScoreEventData captures a recorded test score.
type ScoreEventData struct {
	TestID  int
	Message string
}

// ScoreRecord is a stored score event.
type ScoreRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ScoreEventData
}

// TestAnswerStats aggregates local answers per test.
type TestAnswerStats struct {
	TestID     int
	Answers    int
	Correct    int
	LastAnswer time.Time
}

// EventRepo provides append and query access to local events.
type EventRepo interface {
	// AppendAPICall records an API call event.
	AppendAPICall(ctx context.Context, data APICallEventData) error

	// QueryAPICalls returns API call events, newest first.
	QueryAPICalls(ctx context.Context, opts QueryOpts) ([]APICallRecord, error)

	// GetAPICall returns a single API call event, or nil if not found.
	GetAPICall(ctx context.Context, id int) (*APICallRecord, error)

	// APIUsageByOperation aggregates API calls per operation label.
	APIUsageByOperation(ctx context.Context) ([]APIUsageStats, error)

	// AppendAnswer records a submitted answer.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AppendScore records a recorded test score.
	AppendScore(ctx context.Context, data ScoreEventData) error

	// AnswerStatsByTest aggregates answers per test.
	AnswerStatsByTest(ctx context.Context) ([]TestAnswerStats, error)

	// QueryScores returns score events, newest first.
	QueryScores(ctx context.Context, opts QueryOpts) ([]ScoreRecord, error)
}
