package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/classquiz/internal/api"
	"github.com/abhisek/classquiz/internal/logger"
	"github.com/abhisek/classquiz/internal/quiz"
	"github.com/abhisek/classquiz/internal/records"
	"github.com/abhisek/classquiz/internal/router"
	"github.com/abhisek/classquiz/internal/screen"
	"github.com/abhisek/classquiz/internal/screens/history"
	"github.com/abhisek/classquiz/internal/screens/home"
	quizscreen "github.com/abhisek/classquiz/internal/screens/quiz"
	recordsscreen "github.com/abhisek/classquiz/internal/screens/records"
	"github.com/abhisek/classquiz/internal/screens/welcome"
	"github.com/abhisek/classquiz/internal/ui/layout"
)

// Start selects the first screen.
type Start int

const (
	StartHome Start = iota
	StartQuiz
	StartRecords
)

// Options wires the application's dependencies.
type Options struct {
	Gateway api.Gateway

	// Quiz configures each quiz engine. Its Gateway and Logger default to
	// the ones above.
	Quiz quiz.Config

	// History enables the local history screen when set.
	History history.Repo

	Logger *logger.Logger

	// User and Host are shown in the header.
	User string
	Host string

	Start Start
	// SkipSplash opens the start screen directly.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	// start pushes the requested first screen over home.
	start  tea.Cmd
	width  int
	height int
}

// newAppModel builds the screen graph for opts.
func newAppModel(ctx context.Context, opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	quizCfg := opts.Quiz
	if quizCfg.Gateway == nil {
		quizCfg.Gateway = opts.Gateway
	}
	if quizCfg.Logger == nil {
		quizCfg.Logger = log
	}

	// Each visit gets a fresh engine, like remounting the page.
	screens := home.Screens{
		Quiz: func() screen.Screen {
			return quizscreen.New(ctx, quiz.New(quizCfg))
		},
		Records: func() screen.Screen {
			return recordsscreen.New(ctx, records.New(opts.Gateway, log))
		},
	}
	if opts.History != nil {
		screens.History = func() screen.Screen { return history.New(opts.History) }
	}

	status := layout.Status(opts.User, opts.Host)
	homeScreen := home.New(screens, status)

	m := AppModel{
		router: router.New(homeScreen),
		status: status,
	}

	var next func() screen.Screen
	switch opts.Start {
	case StartQuiz:
		next = screens.Quiz
	case StartRecords:
		next = screens.Records
	}

	switch {
	case next != nil:
		// Home stays underneath so Esc returns to the menu.
		first := next()
		m.start = func() tea.Msg { return router.PushScreenMsg{Screen: first} }
	case !opts.SkipSplash:
		m.router = router.New(welcome.New(opts.User, func() screen.Screen { return homeScreen }))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	if m.start != nil {
		return m.start
	}
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	var own []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		own = hp.KeyHints()
	}
	footer := layout.RenderFooter(layout.FooterHints(own, m.router.Depth() > 1), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
