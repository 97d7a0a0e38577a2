// Package quiz drives a user through a multiple-choice test: loading the
// classroom's tests, activating one, submitting answers question by
// question and recording the final score.
package quiz

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/classquiz/internal/api"
	"github.com/abhisek/classquiz/internal/flow"
	"github.com/abhisek/classquiz/internal/logger"
	"github.com/abhisek/classquiz/internal/model"
	"github.com/abhisek/classquiz/internal/store"
)

// User-visible failure messages.
const (
	ErrFetchData         = "Failed to fetch data."
	ErrFetchQuestions    = "Failed to fetch test questions and options."
	ErrRecordScore       = "Failed to record test score."
	ErrDeleteSubmissions = "Failed to delete submissions."
	ErrSubmitAnswer      = "Failed to submit answer."
)

// maxOptionFetches bounds the concurrent options requests of one test.
const maxOptionFetches = 8

// Recorder keeps a local history of answers and scores.
type Recorder interface {
	AppendAnswer(ctx context.Context, data store.AnswerEventData) error
	AppendScore(ctx context.Context, data store.ScoreEventData) error
}

// Config configures an Engine.
type Config struct {
	Gateway api.Gateway

	// CorrectMedia and WrongMedia are the feedback cue pools.
	CorrectMedia []string
	WrongMedia   []string

	// Recorder is optional.
	Recorder Recorder
	Logger   *logger.Logger
}

// Modal is the feedback overlay shown after an answer or a recorded score.
type Modal struct {
	Visible bool
	// Message is the server's verdict on the last answer.
	Message string
	// IsCorrect is nil until an answer has been judged.
	IsCorrect *bool
	// RecordMessage takes precedence over Message when set.
	RecordMessage string
	// Media is the feedback cue selected for the last answer.
	Media string
}

// Engine holds the state of one quiz session. All methods must be called
// from a single goroutine; the Tasks they return may run anywhere, but
// their Commits must come back to that goroutine.
type Engine struct {
	gw       api.Gateway
	feedback *Feedback
	rec      Recorder
	log      *logger.Logger

	classrooms    []model.Classroom
	tests         []model.Test
	questions     []model.Question
	options       map[int][]model.Option
	activeTest    flow.Selection
	questionIndex int
	modal         Modal
	err           string

	pending int
	initGen int
}

// New creates an Engine.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		gw:       cfg.Gateway,
		feedback: NewFeedback(cfg.CorrectMedia, cfg.WrongMedia),
		rec:      cfg.Recorder,
		log:      log.With("component", "quiz"),
		options:  map[int][]model.Option{},
	}
}

func (e *Engine) Classrooms() []model.Classroom { return e.classrooms }
func (e *Engine) Tests() []model.Test           { return e.tests }
func (e *Engine) Questions() []model.Question   { return e.questions }
func (e *Engine) Modal() Modal                  { return e.modal }
func (e *Engine) Error() string                 { return e.err }
func (e *Engine) Loading() bool                 { return e.pending > 0 }
func (e *Engine) ActiveQuestionIndex() int      { return e.questionIndex }

// Options returns the options loaded for a question.
func (e *Engine) Options(questionID int) []model.Option {
	return e.options[questionID]
}

// ActiveTest returns the active test id, if any.
func (e *Engine) ActiveTest() (int, bool) {
	return e.activeTest.ID()
}

// CurrentQuestion returns the question under the pointer. It reports
// false once every question has been answered.
func (e *Engine) CurrentQuestion() (model.Question, bool) {
	if e.questionIndex < 0 || e.questionIndex >= len(e.questions) {
		return model.Question{}, false
	}
	return e.questions[e.questionIndex], true
}

// Finished reports whether a loaded test has no questions left.
func (e *Engine) Finished() bool {
	return e.activeTest.IsActive() && len(e.questions) > 0 && e.questionIndex >= len(e.questions)
}

// Cursors returns the (correct, wrong) feedback cursor positions.
func (e *Engine) Cursors() (int, int) {
	return e.feedback.Cursors()
}

func (e *Engine) begin() { e.pending++ }

func (e *Engine) end() {
	if e.pending > 0 {
		e.pending--
	}
}

// Initialize loads the caller's classrooms and the tests of the first one.
func (e *Engine) Initialize() flow.Task {
	e.err = ""
	e.initGen++
	gen := e.initGen
	e.begin()

	return func(ctx context.Context) flow.Commit {
		classrooms, err := e.gw.MyClassrooms(ctx)
		if err != nil {
			return e.failInit(gen, err)
		}

		var tests []model.Test
		if len(classrooms) > 0 {
			tests, err = e.gw.TestsByClassroom(ctx, classrooms[0].ID)
		}

		return func() {
			e.end()
			if gen != e.initGen {
				e.log.Debug("dropping stale initialize result")
				return
			}
			e.classrooms = classrooms
			if err != nil {
				e.log.Error("fetch tests failed", "classroom_id", classrooms[0].ID, "error", err)
				e.err = ErrFetchData
				return
			}
			e.tests = tests
		}
	}
}

func (e *Engine) failInit(gen int, err error) flow.Commit {
	return func() {
		e.end()
		if gen != e.initGen {
			return
		}
		e.log.Error("fetch classrooms failed", "error", err)
		e.err = ErrFetchData
	}
}

// ActivateTest toggles the test with the given id. Standing submissions
// are always discarded on the server first. Activating loads the test's
// questions and every question's options, publishing them only if all
// fetches succeed. Only activation resets the error; deactivating keeps
// whatever is on screen.
func (e *Engine) ActivateTest(testID int) flow.Task {
	e.activeTest = e.activeTest.Toggle(testID)
	activating := e.activeTest.IsActive()
	if activating {
		e.err = ""
	}
	e.questionIndex = 0
	e.questions = nil
	e.options = map[int][]model.Option{}

	sel := e.activeTest
	e.begin()

	return func(ctx context.Context) flow.Commit {
		delErr := e.gw.DeleteSubmissions(ctx)

		var (
			questions []model.Question
			options   map[int][]model.Option
			loadErr   error
		)
		if activating {
			questions, options, loadErr = e.loadQuestions(ctx, testID)
		}

		return func() {
			e.end()
			if e.activeTest != sel {
				e.log.Debug("dropping stale test load", "test_id", testID, "active", e.activeTest.String())
				return
			}
			if delErr != nil {
				e.log.Error("delete submissions failed", "error", delErr)
				// A load that follows starts from a clean error.
				if !activating {
					e.err = ErrDeleteSubmissions
				}
			}
			if loadErr != nil {
				e.log.Error("load questions failed", "test_id", testID, "error", loadErr)
				e.err = ErrFetchQuestions
				return
			}
			e.questions = questions
			e.options = options
		}
	}
}

// loadQuestions fetches a test's questions, then fans out one options
// fetch per question. Results are staged and returned only when every
// fetch succeeded.
func (e *Engine) loadQuestions(ctx context.Context, testID int) ([]model.Question, map[int][]model.Option, error) {
	questions, err := e.gw.QuestionsByTest(ctx, testID)
	if err != nil {
		return nil, nil, fmt.Errorf("questions of test %d: %w", testID, err)
	}

	staged := make([][]model.Option, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOptionFetches)
	for i, q := range questions {
		g.Go(func() error {
			opts, err := e.gw.OptionsByQuestion(gctx, q.ID)
			if err != nil {
				return fmt.Errorf("options of question %d: %w", q.ID, err)
			}
			staged[i] = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	options := make(map[int][]model.Option, len(questions))
	for i, q := range questions {
		options[q.ID] = staged[i]
	}
	return questions, options, nil
}

// SubmitAnswer posts the selected option for a question of the active
// test. On success the feedback modal opens and the pointer advances.
func (e *Engine) SubmitAnswer(questionID, optionID int) flow.Task {
	testID, ok := e.activeTest.ID()
	if !ok {
		e.log.Warn("submit without an active test", "question_id", questionID)
		e.err = ErrSubmitAnswer
		return nil
	}
	sel := e.activeTest
	e.begin()

	return func(ctx context.Context) flow.Commit {
		res, err := e.gw.SubmitAnswer(ctx, testID, questionID, optionID)

		return func() {
			e.end()
			if err != nil {
				e.log.Error("submit answer failed", "test_id", testID, "question_id", questionID, "error", err)
				e.err = ErrSubmitAnswer
				return
			}
			if e.activeTest != sel {
				e.log.Debug("dropping stale answer", "test_id", testID, "question_id", questionID)
				return
			}
			correct := res.IsCorrect()
			e.recordAnswer(ctx, store.AnswerEventData{
				TestID:     testID,
				QuestionID: questionID,
				OptionID:   optionID,
				Correct:    correct,
				Message:    res.Message,
			})
			e.modal.Visible = true
			e.modal.Message = res.Message
			e.modal.IsCorrect = &correct
			e.modal.Media = e.feedback.Reveal(correct)
			e.questionIndex++
		}
	}
}

// recordAnswer appends an applied answer to the local history.
func (e *Engine) recordAnswer(ctx context.Context, data store.AnswerEventData) {
	if e.rec == nil {
		return
	}
	if err := e.rec.AppendAnswer(ctx, data); err != nil {
		e.log.Warn("failed to record answer event", "error", err)
	}
}

// RecordScore turns the standing submissions for testID into a recorded
// session and shows the server's summary.
func (e *Engine) RecordScore(testID int) flow.Task {
	e.begin()

	return func(ctx context.Context) flow.Commit {
		res, err := e.gw.RecordScore(ctx, testID)
		if err == nil && e.rec != nil {
			if recErr := e.rec.AppendScore(ctx, store.ScoreEventData{TestID: testID, Message: res.Message}); recErr != nil {
				e.log.Warn("failed to record score event", "error", recErr)
			}
		}

		return func() {
			e.end()
			if err != nil {
				e.log.Error("record score failed", "test_id", testID, "error", err)
				e.err = ErrRecordScore
				return
			}
			e.modal.RecordMessage = res.Message
			e.modal.Visible = true
		}
	}
}

// CloseModal hides the modal and clears the answer message. The record
// message is kept.
func (e *Engine) CloseModal() {
	e.modal.Visible = false
	e.modal.Message = ""
}
