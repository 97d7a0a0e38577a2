package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/classquiz/internal/flow"
	"github.com/abhisek/classquiz/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// CommitMsg carries a finished task's commit back to the UI goroutine.
// The router applies it before forwarding the message, so commits land
// even if their screen is no longer on top.
type CommitMsg struct {
	Commit flow.Commit
}

// Dispatch turns engine tasks into Bubble Tea commands. Each task runs on
// its own goroutine and reports back with a CommitMsg.
func Dispatch(ctx context.Context, tasks ...flow.Task) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		cmds = append(cmds, func() tea.Msg {
			return CommitMsg{Commit: t(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

// BackHandler is implemented by screens that sometimes consume Esc
// themselves, e.g. to close an overlay, instead of being popped.
type BackHandler interface {
	HandlesBack() bool
}
