package components

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/classquiz/internal/ui/theme"
)

// OptionItem is one selectable answer.
type OptionItem struct {
	ID    int
	Label string
	// Picture is an optional image reference shown beside the label.
	Picture string
}

// OptionList is a vertical single-choice list. Enter reports the chosen
// item through OnChoose.
type OptionList struct {
	Prompt   string
	Items    []OptionItem
	Selected int
	OnChoose func(OptionItem) tea.Cmd
}

// NewOptionList creates an option list with the cursor on the first item.
func NewOptionList(prompt string, items []OptionItem, onChoose func(OptionItem) tea.Cmd) OptionList {
	return OptionList{
		Prompt:   prompt,
		Items:    items,
		OnChoose: onChoose,
	}
}

// Update handles keyboard navigation and selection.
func (l OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if l.Selected > 0 {
			l.Selected--
		}
	case "down", "j":
		if l.Selected < len(l.Items)-1 {
			l.Selected++
		}
	case "enter":
		if l.Selected < len(l.Items) && l.OnChoose != nil {
			return l, l.OnChoose(l.Items[l.Selected])
		}
	default:
		// Number keys pick directly.
		if n, err := strconv.Atoi(kmsg.String()); err == nil && n >= 1 && n <= len(l.Items) {
			l.Selected = n - 1
			if l.OnChoose != nil {
				return l, l.OnChoose(l.Items[l.Selected])
			}
		}
	}

	return l, nil
}

// View renders the prompt and the options.
func (l OptionList) View() string {
	var b strings.Builder
	if l.Prompt != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(l.Prompt))
		b.WriteString("\n\n")
	}

	for i, item := range l.Items {
		prefix := "  "
		if i == l.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, item.Label)
		if item.Picture != "" {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  [" + item.Picture + "]")
		}

		if i == l.Selected {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
