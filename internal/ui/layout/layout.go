// Package layout draws the frame around every screen: a header bar with
// the app name, screen title and signed-in user, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/classquiz/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	appName = "ClassQuiz"
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

var (
	quitHint = KeyHint{Key: "Ctrl+C", Description: "Quit"}
	backHint = KeyHint{Key: "Esc", Description: "Back"}
	menuHints = []KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
)

// FooterHints returns the hints for the active screen. Screens that list
// their own keys get Quit appended; otherwise nested screens offer Back
// and the root screen offers menu navigation.
func FooterHints(own []KeyHint, nested bool) []KeyHint {
	var hints []KeyHint
	switch {
	case len(own) > 0:
		hints = append(hints, own...)
	case nested:
		hints = append(hints, backHint)
	default:
		hints = append(hints, menuHints...)
	}
	return append(hints, quitHint)
}

// Status is the header's right-hand text, e.g. "alice @ quiz.example.com".
func Status(user, host string) string {
	switch {
	case user != "" && host != "":
		return user + " @ " + host
	case host != "":
		return host
	}
	return ""
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Window too small.\n\nResize to at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Padding(0, 1)

// RenderHeader draws the app name, the title after a separator and the
// status flush right. The status is dropped first when space runs out.
func RenderHeader(title, status string, width int) string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(appName)
	left := name
	if title != "" {
		left += lipgloss.NewStyle().Foreground(theme.TextDim).Render(" › ") +
			lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	}

	inner := max(width-bar.GetHorizontalFrameSize(), 0)
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(status)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if status == "" || gap < 2 {
		right, gap = "", max(inner-lipgloss.Width(left), 0)
	}

	return bar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFooter draws the key hints separated by dots. Hints that do not
// fit are dropped from the end, keeping the last one (Quit) visible.
func RenderFooter(hints []KeyHint, width int) string {
	inner := max(width-bar.GetHorizontalFrameSize(), 0)
	sep := lipgloss.NewStyle().Foreground(theme.Border).Render("  ·  ")

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}
	for len(parts) > 1 && lipgloss.Width(strings.Join(parts, sep)) > inner {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
	}

	return bar.Width(width).Render(strings.Join(parts, sep))
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}
