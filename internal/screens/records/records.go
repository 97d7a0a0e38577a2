// Package records is the classroom records drill-down screen.
package records

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	browser "github.com/abhisek/classquiz/internal/records"
	"github.com/abhisek/classquiz/internal/router"
	"github.com/abhisek/classquiz/internal/screen"
	"github.com/abhisek/classquiz/internal/ui/layout"
	"github.com/abhisek/classquiz/internal/ui/theme"
)

type rowKind int

const (
	rowPanel rowKind = iota
	rowClassroom
	rowTest
	rowUser
	rowSession
)

// row is one selectable line of the tree.
type row struct {
	kind   rowKind
	id     int
	depth  int
	label  string
	active bool
}

// RecordsScreen renders the records browser as a collapsible tree.
type RecordsScreen struct {
	ctx     context.Context
	browser *browser.Browser

	cursor  int
	spinner spinner.Model
}

var _ screen.Screen = (*RecordsScreen)(nil)
var _ screen.KeyHintProvider = (*RecordsScreen)(nil)

// New creates a RecordsScreen. The panel starts expanded.
func New(ctx context.Context, b *browser.Browser) *RecordsScreen {
	if !b.Visible() {
		b.ToggleVisible()
	}
	return &RecordsScreen{
		ctx:     ctx,
		browser: b,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (s *RecordsScreen) Init() tea.Cmd {
	return tea.Batch(screen.Dispatch(s.ctx, s.browser.Load()), s.spinner.Tick)
}

func (s *RecordsScreen) Title() string {
	return "Classroom Records"
}

func (s *RecordsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Expand/Collapse"},
		{Key: "V", Description: "Show/Hide"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RecordsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.CommitMsg:
		s.clampCursor()
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.rows())-1 {
				s.cursor++
			}
		case "v", "V":
			s.browser.ToggleVisible()
			s.cursor = 0
		case "enter", "space", " ":
			return s, s.activate()
		}
	}
	return s, nil
}

// activate toggles the row under the cursor.
func (s *RecordsScreen) activate() tea.Cmd {
	rows := s.rows()
	if s.cursor >= len(rows) {
		return nil
	}
	r := rows[s.cursor]

	var cmd tea.Cmd
	switch r.kind {
	case rowPanel:
		s.browser.ToggleVisible()
	case rowClassroom:
		cmd = screen.Dispatch(s.ctx, s.browser.ToggleClassroom(r.id)...)
	case rowTest:
		s.browser.ToggleTest(r.id)
	case rowUser:
		cmd = screen.Dispatch(s.ctx, s.browser.ToggleUser(r.id))
	case rowSession:
		cmd = screen.Dispatch(s.ctx, s.browser.ToggleSession(r.id))
	}
	s.clampCursor()
	return cmd
}

func (s *RecordsScreen) clampCursor() {
	if n := len(s.rows()); s.cursor >= n {
		s.cursor = max(n-1, 0)
	}
}

// rows flattens the expanded part of the tree.
func (s *RecordsScreen) rows() []row {
	b := s.browser
	label := "Show Classroom Records"
	if b.Visible() {
		label = "Hide Classroom Records"
	}
	rows := []row{{kind: rowPanel, label: label, active: b.Visible()}}
	if !b.Visible() {
		return rows
	}

	classroomID, classroomOK := b.ActiveClassroom()
	testID, testOK := b.ActiveTest()
	userID, userOK := b.ActiveUser()
	sessionID, sessionOK := b.ActiveSession()

	for _, c := range b.Classrooms() {
		open := classroomOK && c.ID == classroomID
		rows = append(rows, row{kind: rowClassroom, id: c.ID, depth: 0, label: c.Name, active: open})
		if !open {
			continue
		}
		for _, t := range b.Tests() {
			open := testOK && t.ID == testID
			rows = append(rows, row{kind: rowTest, id: t.ID, depth: 1, label: t.Name, active: open})
			if !open {
				continue
			}
			for _, u := range b.Users() {
				open := userOK && u.ID == userID
				rows = append(rows, row{kind: rowUser, id: u.ID, depth: 2, label: u.Username, active: open})
				if !open {
					continue
				}
				for _, sess := range b.Sessions() {
					rows = append(rows, row{
						kind:   rowSession,
						id:     sess.ID,
						depth:  3,
						label:  browser.SessionLabel(sess),
						active: sessionOK && sess.ID == sessionID,
					})
				}
			}
		}
	}
	return rows
}

func levelColor(k rowKind) color.Color {
	switch k {
	case rowClassroom:
		return theme.LevelClassroom
	case rowTest:
		return theme.LevelTest
	case rowUser:
		return theme.LevelUser
	case rowSession:
		return theme.LevelSession
	default:
		return theme.Primary
	}
}

func (s *RecordsScreen) View(width, height int) string {
	var b strings.Builder

	if s.browser.Loading() {
		b.WriteString(s.spinner.View() + " Loading...\n")
	}
	if msg := s.browser.Error(); msg != "" {
		b.WriteString(theme.ErrorText.Render(msg) + "\n")
	}

	for i, r := range s.rows() {
		indent := strings.Repeat("  ", r.depth)
		marker := "▸"
		if r.active {
			marker = "▾"
		}
		if r.kind == rowPanel {
			marker = "●"
		}

		style := lipgloss.NewStyle().Foreground(levelColor(r.kind))
		if r.active {
			style = style.Bold(true)
		}
		line := fmt.Sprintf("%s%s %s", indent, marker, r.label)
		if i == s.cursor {
			line = style.Reverse(true).Render(line)
		} else {
			line = style.Render(line)
		}
		b.WriteString(line + "\n")

		if r.kind == rowPanel && r.active {
			b.WriteString(theme.Title.Render("Classroom Records") + "\n")
		}
		if r.kind == rowSession && r.active {
			b.WriteString(s.renderDetail(r.id, width))
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *RecordsScreen) renderDetail(sessionID, width int) string {
	detail := s.browser.Detail(sessionID)
	if detail == nil {
		return ""
	}

	cardWidth := max(min(width-16, 60), 20)
	var b strings.Builder
	for _, rec := range detail.TestRecords {
		view := browser.DescribeRecord(rec)
		lines := view.Lines()
		if view.Total {
			lines[len(lines)-1] = theme.Title.Render(lines[len(lines)-1])
		}
		card := theme.RecordCard.Width(cardWidth).Render(strings.Join(lines, "\n"))
		b.WriteString(lipgloss.NewStyle().MarginLeft(8).Render(card) + "\n")
	}
	return b.String()
}
