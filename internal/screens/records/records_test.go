package records

import (
	"context"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/classquiz/internal/api"
	"github.com/abhisek/classquiz/internal/model"
	browser "github.com/abhisek/classquiz/internal/records"
	"github.com/abhisek/classquiz/internal/screen"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func drain(t *testing.T, s screen.Screen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, s, c)
		}
	case spinner.TickMsg, nil:
	case screen.CommitMsg:
		msg.Commit()
		_, next := s.Update(msg)
		drain(t, s, next)
	default:
		_, next := s.Update(msg)
		drain(t, s, next)
	}
}

func press(t *testing.T, s screen.Screen, msg tea.Msg) {
	t.Helper()
	_, cmd := s.Update(msg)
	drain(t, s, cmd)
}

func testScreen(t *testing.T) (*RecordsScreen, *api.MockGateway) {
	ts := time.Date(2024, 3, 5, 9, 7, 0, 0, time.Local)
	gw := api.NewMockGateway()
	gw.Classrooms = []model.Classroom{{ID: 1, Name: "Class 3B"}}
	gw.Tests[1] = []model.Test{{ID: 10, Name: "Animals"}}
	gw.Users[1] = []model.User{{ID: 2, Username: "alice"}}
	gw.Sessions[api.SessionKey{TestID: 10, UserID: 2}] = []model.Session{{ID: 500, Timestamp: &ts}}
	gw.Details[500] = &model.SessionDetail{ID: 500, TestRecords: []model.TestRecord{
		{ID: 1, QuestionName: "Which one barks?", SelectedOptionName: "Dog", RecordedScore: 1},
		{ID: 2, TotalRecordedScore: 1},
	}}

	s := New(context.Background(), browser.New(gw, nil))
	drain(t, s, s.Init())
	return s, gw
}

// expand moves to the last row and toggles it.
func expand(t *testing.T, s *RecordsScreen) {
	t.Helper()
	s.cursor = len(s.rows()) - 1
	press(t, s, specialKey(tea.KeyEnter))
}

func TestRecordsScreen_DrillDown(t *testing.T) {
	s, gw := testScreen(t)
	require.Len(t, s.rows(), 2)

	expand(t, s) // classroom
	expand(t, s) // test (users listed last)
	rows := s.rows()
	require.Len(t, rows, 4)
	assert.Equal(t, rowUser, rows[3].kind)

	expand(t, s) // user
	rows = s.rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "2024-03-05 09:07", rows[4].label)

	expand(t, s) // session
	view := s.View(100, 40)
	assert.Contains(t, view, "Question: Which one barks?")
	assert.Contains(t, view, "Total Score: 1")
	assert.Equal(t, 1, gw.CallCount(api.OpSessionDetail))
}

func TestRecordsScreen_HidePanel(t *testing.T) {
	s, _ := testScreen(t)
	assert.Contains(t, s.View(80, 20), "Hide Classroom Records")

	s.cursor = 0
	press(t, s, specialKey(tea.KeyEnter))

	assert.Len(t, s.rows(), 1)
	assert.Contains(t, s.View(80, 20), "Show Classroom Records")
}

func TestRecordsScreen_ShowsError(t *testing.T) {
	gw := api.NewMockGateway()
	gw.Errors[api.OpMyClassrooms] = assert.AnError
	s := New(context.Background(), browser.New(gw, nil))
	drain(t, s, s.Init())

	assert.Contains(t, s.View(80, 20), browser.ErrFetchClassrooms)
}
