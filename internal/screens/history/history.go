package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/classquiz/internal/router"
	"github.com/abhisek/classquiz/internal/screen"
	"github.com/abhisek/classquiz/internal/store"
	"github.com/abhisek/classquiz/internal/ui/layout"
	"github.com/abhisek/classquiz/internal/ui/theme"
)

// Repo is the slice of the event store the history screen reads.
type Repo interface {
	AnswerStatsByTest(ctx context.Context) ([]store.TestAnswerStats, error)
	QueryScores(ctx context.Context, opts store.QueryOpts) ([]store.ScoreRecord, error)
}

type historyLoadedMsg struct {
	Stats  []store.TestAnswerStats
	Scores map[int][]store.ScoreRecord // testID → scores, newest first
	Err    error
}

// HistoryScreen lists the tests answered on this machine with their
// recorded scores.
type HistoryScreen struct {
	repo     Repo
	stats    []store.TestAnswerStats
	scores   map[int][]store.ScoreRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo Repo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		stats, err := s.repo.AnswerStatsByTest(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		scores, err := s.repo.QueryScores(ctx, store.QueryOpts{Limit: 200})
		if err != nil {
			return historyLoadedMsg{Stats: stats, Scores: map[int][]store.ScoreRecord{}}
		}

		byTest := make(map[int][]store.ScoreRecord)
		for _, sc := range scores {
			byTest[sc.TestID] = append(byTest[sc.TestID], sc)
		}
		return historyLoadedMsg{Stats: stats, Scores: byTest}
	}
}

func (s *HistoryScreen) Title() string {
	return "My History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Scores"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.stats = msg.Stats
			s.scores = msg.Scores
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.stats)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return centered.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.stats) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers yet. Take a test!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, st := range s.stats {
		var accuracy float64
		if st.Answers > 0 {
			accuracy = float64(st.Correct) / float64(st.Answers) * 100
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		line := fmt.Sprintf("%sTest #%d  %d answers  %.0f%% correct  last %s",
			prefix, st.TestID, st.Answers, accuracy, st.LastAnswer.Local().Format("Jan 02 15:04"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		scores := s.scores[st.TestID]
		if len(scores) == 0 {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render("    No recorded scores")))
			b.WriteString("\n")
			continue
		}
		for _, sc := range scores {
			scoreLine := fmt.Sprintf("    %s  %s", sc.Timestamp.Local().Format("2006-01-02 15:04"), sc.Message)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Secondary).Render(scoreLine)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
