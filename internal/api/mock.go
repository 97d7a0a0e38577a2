package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/classquiz/internal/model"
)

// MockCall records one MockGateway call.
type MockCall struct {
	Op   string
	Args []int
}

// SessionKey identifies the sessions of one user at one test.
type SessionKey struct {
	TestID int
	UserID int
}

// MockGateway is a deterministic in-memory Gateway for testing.
// It serves the canned data in its fields and records every call.
type MockGateway struct {
	mu sync.Mutex

	Classrooms []model.Classroom
	Tests      map[int][]model.Test     // by classroom
	Questions  map[int][]model.Question // by test
	Options    map[int][]model.Option   // by question
	Users      map[int][]model.User     // by classroom
	Sessions   map[SessionKey][]model.Session
	Details    map[int]*model.SessionDetail

	// SubmitResults are returned in FIFO order. When empty, the result is
	// derived from Options.
	SubmitResults []model.SubmitResult
	RecordResult  *model.RecordResult

	// Errors makes every call of an operation fail.
	Errors map[string]error
	// OptionErrors makes the options fetch of one question fail.
	OptionErrors map[int]error

	Calls []MockCall
}

var _ Gateway = (*MockGateway)(nil)

// NewMockGateway creates an empty MockGateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Tests:        map[int][]model.Test{},
		Questions:    map[int][]model.Question{},
		Options:      map[int][]model.Option{},
		Users:        map[int][]model.User{},
		Sessions:     map[SessionKey][]model.Session{},
		Details:      map[int]*model.SessionDetail{},
		Errors:       map[string]error{},
		OptionErrors: map[int]error{},
	}
}

// record logs the call and returns the configured error for op.
func (m *MockGateway) record(op string, args ...int) error {
	m.Calls = append(m.Calls, MockCall{Op: op, Args: args})
	return m.Errors[op]
}

func (m *MockGateway) MyClassrooms(_ context.Context) ([]model.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpMyClassrooms); err != nil {
		return nil, err
	}
	return m.Classrooms, nil
}

func (m *MockGateway) TestsByClassroom(_ context.Context, classroomID int) ([]model.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpTestsByClassroom, classroomID); err != nil {
		return nil, err
	}
	return m.Tests[classroomID], nil
}

func (m *MockGateway) QuestionsByTest(_ context.Context, testID int) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpQuestionsByTest, testID); err != nil {
		return nil, err
	}
	return m.Questions[testID], nil
}

func (m *MockGateway) OptionsByQuestion(_ context.Context, questionID int) ([]model.Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpOptionsByQuestion, questionID); err != nil {
		return nil, err
	}
	if err := m.OptionErrors[questionID]; err != nil {
		return nil, err
	}
	return m.Options[questionID], nil
}

func (m *MockGateway) UsersByClassroom(_ context.Context, classroomID int) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpUsersByClassroom, classroomID); err != nil {
		return nil, err
	}
	return m.Users[classroomID], nil
}

func (m *MockGateway) SessionsByTestAndUser(_ context.Context, testID, userID int) ([]model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpSessions, testID, userID); err != nil {
		return nil, err
	}
	return m.Sessions[SessionKey{TestID: testID, UserID: userID}], nil
}

func (m *MockGateway) SessionDetail(_ context.Context, sessionID int) (*model.SessionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpSessionDetail, sessionID); err != nil {
		return nil, err
	}
	d, ok := m.Details[sessionID]
	if !ok {
		return nil, &StatusError{Op: OpSessionDetail, StatusCode: 404}
	}
	return d, nil
}

func (m *MockGateway) SubmitAnswer(_ context.Context, testID, questionID, optionID int) (*model.SubmitResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpSubmitAnswer, testID, questionID, optionID); err != nil {
		return nil, err
	}

	if len(m.SubmitResults) > 0 {
		res := m.SubmitResults[0]
		m.SubmitResults = m.SubmitResults[1:]
		return &res, nil
	}

	var chosen, correct *model.Option
	for i, o := range m.Options[questionID] {
		if o.ID == optionID {
			chosen = &m.Options[questionID][i]
		}
		if o.IsCorrect {
			correct = &m.Options[questionID][i]
		}
	}
	if chosen == nil {
		return nil, &StatusError{Op: OpSubmitAnswer, StatusCode: 404}
	}
	if chosen.IsCorrect || correct == nil {
		return &model.SubmitResult{Success: true, Message: model.CorrectAnswerMessage}, nil
	}
	return &model.SubmitResult{Success: true, Message: fmt.Sprintf("AMAI!\nCorrect option: %s", correct.Name)}, nil
}

func (m *MockGateway) RecordScore(_ context.Context, testID int) (*model.RecordResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(OpRecordScore, testID); err != nil {
		return nil, err
	}
	if m.RecordResult != nil {
		res := *m.RecordResult
		return &res, nil
	}
	return &model.RecordResult{Success: true, Message: "Total score: 0/0!"}, nil
}

func (m *MockGateway) DeleteSubmissions(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record(OpDeleteSubmissions)
}

// CallCount returns how many times op was called.
func (m *MockGateway) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// CallOps returns the operation labels of all calls in order.
func (m *MockGateway) CallOps() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset clears the call log.
func (m *MockGateway) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}
