// Package quiz is the test-taking screen.
package quiz

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	engine "github.com/abhisek/classquiz/internal/quiz"
	"github.com/abhisek/classquiz/internal/router"
	"github.com/abhisek/classquiz/internal/screen"
	"github.com/abhisek/classquiz/internal/ui/components"
	"github.com/abhisek/classquiz/internal/ui/layout"
	"github.com/abhisek/classquiz/internal/ui/theme"
)

type focusArea int

const (
	focusTests focusArea = iota
	focusOptions
)

// QuizScreen lets the user pick a test and answer its questions.
type QuizScreen struct {
	ctx    context.Context
	engine *engine.Engine

	focus      focusArea
	testCursor int

	options    components.OptionList
	optionsFor int // question id the option list was built for

	spinner spinner.Model
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// New creates a QuizScreen around a fresh engine.
func New(ctx context.Context, e *engine.Engine) *QuizScreen {
	return &QuizScreen{
		ctx:        ctx,
		engine:     e,
		optionsFor: -1,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent)),
		),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(screen.Dispatch(s.ctx, s.engine.Initialize()), s.spinner.Tick)
}

func (s *QuizScreen) Title() string {
	return "Take a Test"
}

// HandlesBack reports whether Esc should close the feedback modal rather
// than leave the screen.
func (s *QuizScreen) HandlesBack() bool {
	return s.engine.Modal().Visible
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.engine.Modal().Visible {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Tests"},
		{Key: "Enter", Description: "Select"},
	}
	if _, ok := s.engine.ActiveTest(); ok {
		hints = append(hints,
			layout.KeyHint{Key: "Tab", Description: "Switch focus"},
			layout.KeyHint{Key: "R", Description: "Record score"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.CommitMsg:
		s.sync()
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.engine.Modal().Visible {
		switch msg.String() {
		case "enter", "esc", "space", " ":
			s.engine.CloseModal()
			s.sync()
		}
		return s, nil
	}

	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "r", "R":
		if id, ok := s.engine.ActiveTest(); ok {
			return s, screen.Dispatch(s.ctx, s.engine.RecordScore(id))
		}
		return s, nil
	case "tab":
		if s.focus == focusTests && s.hasQuestion() {
			s.focus = focusOptions
		} else {
			s.focus = focusTests
		}
		return s, nil
	}

	if s.focus == focusOptions && s.hasQuestion() {
		var cmd tea.Cmd
		s.options, cmd = s.options.Update(msg)
		return s, cmd
	}
	return s.handleTestKey(msg)
}

func (s *QuizScreen) handleTestKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	tests := s.visibleTests()
	switch msg.String() {
	case "left", "h", "up", "k":
		if s.testCursor > 0 {
			s.testCursor--
		}
	case "right", "l", "down", "j":
		if s.testCursor < len(tests)-1 {
			s.testCursor++
		}
	case "enter":
		if s.testCursor < len(tests) {
			task := s.engine.ActivateTest(tests[s.testCursor].id)
			s.focus = focusTests
			s.sync()
			return s, screen.Dispatch(s.ctx, task)
		}
	}
	return s, nil
}

type testButton struct {
	id     int
	label  string
	active bool
}

// visibleTests lists the test buttons. While a test is active the others
// are hidden.
func (s *QuizScreen) visibleTests() []testButton {
	activeID, hasActive := s.engine.ActiveTest()
	var out []testButton
	for _, t := range s.engine.Tests() {
		if hasActive && t.ID != activeID {
			continue
		}
		out = append(out, testButton{id: t.ID, label: t.Name, active: hasActive && t.ID == activeID})
	}
	return out
}

func (s *QuizScreen) hasQuestion() bool {
	_, ok := s.engine.CurrentQuestion()
	return ok
}

// sync rebuilds derived view state after the engine changed.
func (s *QuizScreen) sync() {
	if n := len(s.visibleTests()); s.testCursor >= n {
		s.testCursor = max(n-1, 0)
	}

	q, ok := s.engine.CurrentQuestion()
	if !ok {
		s.optionsFor = -1
		s.focus = focusTests
		return
	}
	if q.ID == s.optionsFor {
		return
	}

	var items []components.OptionItem
	for _, o := range s.engine.Options(q.ID) {
		items = append(items, components.OptionItem{ID: o.ID, Label: o.Name, Picture: o.OptionPicture})
	}
	questionID := q.ID
	s.options = components.NewOptionList(q.Name, items, func(item components.OptionItem) tea.Cmd {
		return screen.Dispatch(s.ctx, s.engine.SubmitAnswer(questionID, item.ID))
	})
	s.optionsFor = q.ID
	s.focus = focusOptions
}

func (s *QuizScreen) View(width, height int) string {
	if s.engine.Modal().Visible {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.renderModal(width))
	}

	var sections []string
	if line := s.renderStatus(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, s.renderTests())

	if _, ok := s.engine.ActiveTest(); ok {
		sections = append(sections, s.renderQuestion(width))
	} else if len(s.engine.Tests()) == 0 && !s.engine.Loading() {
		sections = append(sections, theme.Hint.Render("No tests in your classroom yet."))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (s *QuizScreen) renderStatus() string {
	var parts []string
	if s.engine.Loading() {
		parts = append(parts, s.spinner.View()+" Loading...")
	}
	if msg := s.engine.Error(); msg != "" {
		parts = append(parts, theme.ErrorText.Render(msg))
	}
	return strings.Join(parts, "\n")
}

func (s *QuizScreen) renderTests() string {
	tests := s.visibleTests()
	if len(tests) == 0 {
		return ""
	}
	buttons := make([]string, 0, len(tests))
	for i, t := range tests {
		b := components.NewButton(t.label, t.active, nil)
		buttons = append(buttons, b.View(s.focus == focusTests && i == s.testCursor), " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
}

func (s *QuizScreen) renderQuestion(width int) string {
	total := len(s.engine.Questions())
	if total == 0 {
		return ""
	}

	bar := components.QuestionProgress{
		Index: s.engine.ActiveQuestionIndex(),
		Total: total,
		Width: min(width-4, 60),
	}

	q, ok := s.engine.CurrentQuestion()
	if !ok {
		return bar.View() + "\n\n" +
			theme.Body.Render("All questions answered.") + "\n" +
			theme.Hint.Render("Press R to record your score.")
	}

	var b strings.Builder
	b.WriteString(bar.View())
	b.WriteString("\n\n")
	if q.QuestionSound != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("♪ " + q.QuestionSound))
		b.WriteString("\n")
	}
	b.WriteString(s.options.View())
	return b.String()
}

func (s *QuizScreen) renderModal(width int) string {
	m := s.engine.Modal()

	var body string
	switch {
	case m.RecordMessage != "":
		body = theme.Title.Render(m.RecordMessage)
	case m.IsCorrect != nil && *m.IsCorrect:
		body = theme.Correct.Render("✓") + "\n\n" + theme.Body.Render(m.Message)
	case m.IsCorrect != nil:
		body = theme.Incorrect.Render("✗") + "\n\n" + theme.Body.Render(m.Message)
	default:
		body = theme.Body.Render(m.Message)
	}
	if m.Media != "" && m.RecordMessage == "" {
		body += "\n\n" + theme.Hint.Render("♪ "+m.Media)
	}
	body += "\n\n" + theme.Hint.Render("Enter to continue")

	return theme.Modal.Width(min(width-4, 50)).Render(body)
}
