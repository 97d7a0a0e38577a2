package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/classquiz/internal/router"
	"github.com/abhisek/classquiz/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome(user string) (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(user, factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestGreetingAppearsAfterBanner(t *testing.T) {
	w, _ := newTestWelcome("alice")

	if strings.Contains(w.View(80, 24), "Welcome") {
		t.Error("greeting should not be visible at start")
	}

	sendTicks(w, 9)
	view := w.View(80, 24)
	if !strings.Contains(view, "Welcome, alice!") {
		t.Errorf("expected greeting after %v, got:\n%s", w.elapsed, view)
	}
}

func TestAnonymousGreeting(t *testing.T) {
	w, _ := newTestWelcome("")
	sendTicks(w, 10)
	if !strings.Contains(w.View(80, 24), "Welcome!") {
		t.Error("expected anonymous greeting")
	}
}

func TestKeypressSkipsToNext(t *testing.T) {
	w, callCount := newTestWelcome("")
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestAutoTransitionAfterSplash(t *testing.T) {
	w, callCount := newTestWelcome("")

	cmd := sendTicks(w, int(totalDur/tickInterval))
	if cmd == nil {
		t.Fatal("expected transition when the splash ends")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen == nil {
		t.Fatalf("expected ReplaceScreenMsg with a screen, got %T", cmd())
	}

	// Later ticks and keys do nothing.
	if sendTicks(w, 3) != nil {
		t.Error("ticks after transition should stop")
	}
	if _, cmd := w.Update(tea.KeyPressMsg{Code: 'a'}); cmd != nil {
		t.Error("second transition should not happen")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcome("")
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}
