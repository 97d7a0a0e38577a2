// Package records drives the classroom records drill-down:
// classroom → test and user → session → session detail.
package records

import (
	"context"
	"fmt"

	"github.com/abhisek/classquiz/internal/api"
	"github.com/abhisek/classquiz/internal/flow"
	"github.com/abhisek/classquiz/internal/logger"
	"github.com/abhisek/classquiz/internal/model"
)

const (
	ErrFetchClassrooms = "Failed to fetch classrooms."
	ErrFetchTests      = "Failed to fetch tests."
	ErrFetchUsers      = "Failed to fetch users."
	ErrFetchSessions   = "Failed to fetch sessions."
)

// ErrFetchSessionDetail returns the message for a failed detail fetch.
func ErrFetchSessionDetail(sessionID int) string {
	return fmt.Sprintf("Failed to fetch session details for ID %d.", sessionID)
}

// Browser holds the records drill-down state. Like quiz.Engine it is
// owned by one goroutine; Tasks run elsewhere and hand back Commits.
type Browser struct {
	gw  api.Gateway
	log *logger.Logger

	classrooms []model.Classroom
	tests      []model.Test
	users      []model.User
	sessions   []model.Session
	details    map[int]*model.SessionDetail
	inFlight   map[int]bool

	activeClassroom flow.Selection
	activeTest      flow.Selection
	activeUser      flow.Selection
	activeSession   flow.Selection

	visible bool
	err     string
	pending int
	loadGen int
}

// New creates a Browser. A nil logger discards output.
func New(gw api.Gateway, log *logger.Logger) *Browser {
	if log == nil {
		log = logger.NewNop()
	}
	return &Browser{
		gw:       gw,
		log:      log.With("component", "records"),
		details:  map[int]*model.SessionDetail{},
		inFlight: map[int]bool{},
	}
}

func (b *Browser) Classrooms() []model.Classroom { return b.classrooms }
func (b *Browser) Tests() []model.Test           { return b.tests }
func (b *Browser) Users() []model.User           { return b.users }
func (b *Browser) Sessions() []model.Session     { return b.sessions }
func (b *Browser) Visible() bool                 { return b.visible }
func (b *Browser) Error() string                 { return b.err }
func (b *Browser) Loading() bool                 { return b.pending > 0 }

func (b *Browser) ActiveClassroom() (int, bool) { return b.activeClassroom.ID() }
func (b *Browser) ActiveTest() (int, bool)      { return b.activeTest.ID() }
func (b *Browser) ActiveUser() (int, bool)      { return b.activeUser.ID() }
func (b *Browser) ActiveSession() (int, bool)   { return b.activeSession.ID() }

// Detail returns the cached detail of a session, or nil.
func (b *Browser) Detail(sessionID int) *model.SessionDetail {
	return b.details[sessionID]
}

func (b *Browser) begin() { b.pending++ }

func (b *Browser) end() {
	if b.pending > 0 {
		b.pending--
	}
}

// ToggleVisible shows or hides the records panel.
func (b *Browser) ToggleVisible() {
	b.visible = !b.visible
}

// Load fetches the caller's classrooms.
func (b *Browser) Load() flow.Task {
	b.err = ""
	b.loadGen++
	gen := b.loadGen
	b.begin()

	return func(ctx context.Context) flow.Commit {
		classrooms, err := b.gw.MyClassrooms(ctx)
		return func() {
			b.end()
			if gen != b.loadGen {
				return
			}
			if err != nil {
				b.log.Error("fetch classrooms failed", "error", err)
				b.err = ErrFetchClassrooms
				return
			}
			b.classrooms = classrooms
		}
	}
}

// collapseClassroom clears everything below the classroom level except
// the session-detail cache.
func (b *Browser) collapseClassroom() {
	b.tests = nil
	b.users = nil
	b.sessions = nil
	b.activeTest = b.activeTest.Clear()
	b.activeUser = b.activeUser.Clear()
}

// ToggleClassroom expands or collapses a classroom. Expanding fetches its
// tests and users; the two results commit independently.
func (b *Browser) ToggleClassroom(classroomID int) []flow.Task {
	b.activeClassroom = b.activeClassroom.Toggle(classroomID)
	b.collapseClassroom()
	if !b.activeClassroom.IsActive() {
		return nil
	}
	sel := b.activeClassroom

	b.begin()
	fetchTests := func(ctx context.Context) flow.Commit {
		tests, err := b.gw.TestsByClassroom(ctx, classroomID)
		return func() {
			b.end()
			if b.activeClassroom != sel {
				b.log.Debug("dropping stale tests", "classroom_id", classroomID)
				return
			}
			if err != nil {
				b.log.Error("fetch tests failed", "classroom_id", classroomID, "error", err)
				b.err = ErrFetchTests
				return
			}
			b.tests = tests
		}
	}

	b.begin()
	fetchUsers := func(ctx context.Context) flow.Commit {
		users, err := b.gw.UsersByClassroom(ctx, classroomID)
		return func() {
			b.end()
			if b.activeClassroom != sel {
				b.log.Debug("dropping stale users", "classroom_id", classroomID)
				return
			}
			if err != nil {
				b.log.Error("fetch users failed", "classroom_id", classroomID, "error", err)
				b.err = ErrFetchUsers
				return
			}
			b.users = users
		}
	}

	return []flow.Task{fetchTests, fetchUsers}
}

// ToggleTest expands or collapses a test. It never touches the network.
func (b *Browser) ToggleTest(testID int) {
	b.activeTest = b.activeTest.Toggle(testID)
	b.sessions = nil
	b.activeUser = b.activeUser.Clear()
}

// ToggleUser expands or collapses a user under the active test. With no
// active test the user expands to an empty session list.
func (b *Browser) ToggleUser(userID int) flow.Task {
	b.activeUser = b.activeUser.Toggle(userID)
	b.sessions = nil

	testID, ok := b.activeTest.ID()
	if !b.activeUser.IsActive() || !ok {
		return nil
	}
	testSel, userSel := b.activeTest, b.activeUser
	b.begin()

	return func(ctx context.Context) flow.Commit {
		sessions, err := b.gw.SessionsByTestAndUser(ctx, testID, userID)
		return func() {
			b.end()
			if b.activeTest != testSel || b.activeUser != userSel {
				b.log.Debug("dropping stale sessions", "test_id", testID, "user_id", userID)
				return
			}
			if err != nil {
				b.log.Error("fetch sessions failed", "test_id", testID, "user_id", userID, "error", err)
				b.err = ErrFetchSessions
				return
			}
			b.sessions = sessions
		}
	}
}

// ToggleSession expands or collapses a session. The detail is fetched
// once per session and cached for the life of the Browser.
func (b *Browser) ToggleSession(sessionID int) flow.Task {
	b.activeSession = b.activeSession.Toggle(sessionID)
	if !b.activeSession.IsActive() {
		return nil
	}
	if b.details[sessionID] != nil || b.inFlight[sessionID] {
		return nil
	}
	b.inFlight[sessionID] = true
	b.begin()

	return func(ctx context.Context) flow.Commit {
		detail, err := b.gw.SessionDetail(ctx, sessionID)
		return func() {
			b.end()
			delete(b.inFlight, sessionID)
			if err != nil {
				b.log.Error("fetch session detail failed", "session_id", sessionID, "error", err)
				b.err = ErrFetchSessionDetail(sessionID)
				return
			}
			b.details[sessionID] = detail
		}
	}
}
