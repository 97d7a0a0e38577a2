package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionListNavigateAndChoose(t *testing.T) {
	var chosen OptionItem
	l := NewOptionList("Which one barks?", []OptionItem{
		{ID: 1, Label: "Dog"},
		{ID: 2, Label: "Cat"},
	}, func(item OptionItem) tea.Cmd {
		chosen = item
		return func() tea.Msg { return nil }
	})

	l, _ = l.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	l, _ = l.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, l.Selected, "cursor stops at the last item")

	_, cmd := l.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, 2, chosen.ID)
}

func TestOptionListNumberKey(t *testing.T) {
	var chosen OptionItem
	l := NewOptionList("", []OptionItem{{ID: 1, Label: "Dog"}, {ID: 2, Label: "Cat"}}, func(item OptionItem) tea.Cmd {
		chosen = item
		return nil
	})

	l, _ = l.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	assert.Equal(t, 1, chosen.ID)
	assert.Equal(t, 0, l.Selected)

	chosen = OptionItem{}
	l.Update(tea.KeyPressMsg{Code: '9', Text: "9"})
	assert.Zero(t, chosen.ID, "out of range numbers are ignored")
}

func TestOptionListView(t *testing.T) {
	l := NewOptionList("Pick", []OptionItem{{ID: 1, Label: "Dog", Picture: "/img/dog.png"}}, nil)
	out := l.View()
	assert.Contains(t, out, "Pick")
	assert.Contains(t, out, "1)  Dog")
	assert.Contains(t, out, "/img/dog.png")
}
