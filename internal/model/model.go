// Package model holds the read-only entities served by the classroom API.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Classroom is a group of users sharing a set of tests.
type Classroom struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Test is a named, ordered collection of questions.
type Test struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Question is a prompt within a test. Order is preserved as returned by
// the server.
type Question struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	QuestionSound string `json:"question_sound,omitempty"`
}

// Option is one answer choice for a question.
type Option struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	OptionPicture string `json:"option_picture,omitempty"`
	IsCorrect     bool   `json:"is_correct"`
}

// User is a classroom member.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Session is one recorded attempt by a user at a test.
type Session struct {
	ID        int        `json:"id"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// zonelessLayouts are the session timestamp forms that carry no offset.
// They hold the server's wall-clock time and are read as local time.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// UnmarshalJSON accepts RFC 3339 timestamps as well as the bare
// "YYYY-MM-DD HH:MM" form some servers store.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        int     `json:"id"`
		Timestamp *string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = raw.ID
	s.Timestamp = nil
	if raw.Timestamp == nil || *raw.Timestamp == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, *raw.Timestamp); err == nil {
		s.Timestamp = &t
		return nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, *raw.Timestamp, time.Local); err == nil {
			s.Timestamp = &t
			return nil
		}
	}
	return fmt.Errorf("session %d: unrecognized timestamp %q", raw.ID, *raw.Timestamp)
}

// RecordQuestion is the question embedded in a test record, with all of
// its options.
type RecordQuestion struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	QuestionSound string   `json:"question_sound,omitempty"`
	Options       []Option `json:"options"`
}

// TestRecord is a recorded answer within a session. A record with a
// non-zero TotalRecordedScore is the session's aggregate row.
type TestRecord struct {
	ID                 int             `json:"id"`
	QuestionName       string          `json:"question_name,omitempty"`
	Question           *RecordQuestion `json:"question,omitempty"`
	SelectedOptionName string          `json:"selected_option_name,omitempty"`
	RecordedScore      int             `json:"recorded_score"`
	TotalRecordedScore int             `json:"total_recorded_score"`
}

// IsTotal reports whether the record carries the session total.
func (r TestRecord) IsTotal() bool {
	return r.TotalRecordedScore != 0
}

// SessionDetail is the full content of a session.
type SessionDetail struct {
	ID          int          `json:"id"`
	TestRecords []TestRecord `json:"test_records"`
}

// SubmitResult is the server's verdict on a submitted answer.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Correct is set by servers that report correctness explicitly.
	Correct *bool `json:"correct,omitempty"`
}

// CorrectAnswerMessage is the message the server sends for a correct
// answer when it does not report correctness explicitly.
const CorrectAnswerMessage = "Correct answer"

// IsCorrect reports the answer's correctness, preferring the explicit
// field and falling back to the message text.
func (r SubmitResult) IsCorrect() bool {
	if r.Correct != nil {
		return *r.Correct
	}
	return r.Message == CorrectAnswerMessage
}

// RecordResult is the server's response to recording a test score.
type RecordResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TestRecordIDs []int  `json:"test_record_ids,omitempty"`
}
