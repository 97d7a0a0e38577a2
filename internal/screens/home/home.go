package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/classquiz/internal/router"
	"github.com/abhisek/classquiz/internal/screen"
	"github.com/abhisek/classquiz/internal/ui/components"
)

// Screens builds the screens reachable from the home menu. A nil factory
// disables its entry.
type Screens struct {
	Quiz    func() screen.Screen
	Records func() screen.Screen
	History func() screen.Screen
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu components.Menu
	// tagline is shown under the title, e.g. the signed-in user.
	tagline string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(screens Screens, tagline string) *HomeScreen {
	push := func(factory func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := factory()
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: s}
			}
		}
	}

	items := []components.MenuItem{
		{Label: "TAKE A TEST", Disabled: screens.Quiz == nil},
		{Label: "CLASSROOM RECORDS", Disabled: screens.Records == nil},
		{Label: "MY HISTORY", Disabled: screens.History == nil},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	if screens.Quiz != nil {
		items[0].Action = push(screens.Quiz)
	}
	if screens.Records != nil {
		items[1].Action = push(screens.Records)
	}
	if screens.History != nil {
		items[2].Action = push(screens.History)
	}

	return &HomeScreen{
		menu:    components.NewMenu(items),
		tagline: tagline,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 16 || width < 70
	cw := contentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if h.tagline != "" {
		sections = append(sections, renderTagline(h.tagline, cw))
	}

	labels := make([]string, len(h.menu.Items))
	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		labels[i] = item.Label
		disabled[i] = item.Disabled
	}
	if compact {
		sections = append(sections, renderMenuCompact(labels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderMenu(labels, h.menu.Selected, cw, disabled))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
