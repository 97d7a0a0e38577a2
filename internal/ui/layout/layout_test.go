package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "alice @ quiz.local", Status("alice", "quiz.local"))
	assert.Equal(t, "quiz.local", Status("", "quiz.local"))
	assert.Empty(t, Status("alice", ""))
}

func TestFooterHints(t *testing.T) {
	own := []KeyHint{{Key: "R", Description: "Record score"}}
	assert.Equal(t, []KeyHint{own[0], quitHint}, FooterHints(own, true))
	assert.Equal(t, []KeyHint{backHint, quitHint}, FooterHints(nil, true))
	assert.Equal(t, append(append([]KeyHint{}, menuHints...), quitHint), FooterHints(nil, false))
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestRenderHeaderDropsStatusWhenNarrow(t *testing.T) {
	wide := RenderHeader("Take a Test", "alice @ quiz.local", 80)
	assert.Contains(t, wide, "alice @ quiz.local")
	assert.Contains(t, wide, "Take a Test")

	narrow := RenderHeader("Classroom Records", "someone.with.a.long.name @ quiz.example.com", 60)
	assert.NotContains(t, narrow, "quiz.example.com")
	assert.Contains(t, narrow, "Classroom Records")
}

func TestRenderFooterKeepsQuit(t *testing.T) {
	hints := []KeyHint{
		{Key: "←→", Description: "Choose test"},
		{Key: "Tab", Description: "Switch focus"},
		{Key: "Enter", Description: "Answer"},
		{Key: "R", Description: "Record score"},
		{Key: "Esc", Description: "Back"},
		quitHint,
	}
	out := RenderFooter(hints, 60)
	assert.Contains(t, out, "Quit")
	assert.NotContains(t, out, "Esc")
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", "", 70)
	footer := RenderFooter(FooterHints(nil, false), 70)
	out := RenderFrame(header, "body", footer, 70, 24)
	assert.Equal(t, 24, lipgloss.Height(out))
}
