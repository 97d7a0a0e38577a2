package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/classquiz/internal/ui/theme"
)

// QuestionProgress shows how far through a test the taker is.
type QuestionProgress struct {
	// Index is the zero-based pointer into the test. It may run past Total
	// once every question has been answered.
	Index int
	Total int
	Width int
}

// Answered returns the number of questions already answered.
func (p QuestionProgress) Answered() int {
	return max(0, min(p.Index, p.Total))
}

// Label returns "Question N of M", or "Done" once the pointer is past
// the last question.
func (p QuestionProgress) Label() string {
	if p.Index >= p.Total {
		return fmt.Sprintf("Done (%d of %d)", p.Total, p.Total)
	}
	return fmt.Sprintf("Question %d of %d", p.Index+1, p.Total)
}

// View renders the label followed by a bar with one cell block per
// question.
func (p QuestionProgress) View() string {
	if p.Total <= 0 {
		return ""
	}
	label := lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label()) + "  "

	barWidth := max(p.Width-lipgloss.Width(label), p.Total)
	cell := max(barWidth/p.Total, 1)

	filled := p.Answered() * cell
	empty := p.Total*cell - filled

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
}
