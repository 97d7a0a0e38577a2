package flow

import "fmt"

// Selection is either None or Active(id). Every transition bumps a
// generation counter, so two Selections compare equal only if no
// transition happened between them. Tasks capture the Selection at
// dispatch and their Commits apply only while it is still current.
type Selection struct {
	id     int
	active bool
	gen    uint64
}

// None returns the empty selection.
func None() Selection {
	return Selection{}
}

// ID returns the selected id and whether anything is selected.
func (s Selection) ID() (int, bool) {
	return s.id, s.active
}

// IsActive reports whether something is selected.
func (s Selection) IsActive() bool {
	return s.active
}

// Is reports whether id is the selected id.
func (s Selection) Is(id int) bool {
	return s.active && s.id == id
}

// Activate selects id unconditionally.
func (s Selection) Activate(id int) Selection {
	return Selection{id: id, active: true, gen: s.gen + 1}
}

// Clear deselects. Clearing an empty selection leaves it unchanged.
func (s Selection) Clear() Selection {
	if !s.active {
		return s
	}
	return Selection{gen: s.gen + 1}
}

// Toggle deselects id if it is selected, otherwise selects it.
func (s Selection) Toggle(id int) Selection {
	if s.Is(id) {
		return s.Clear()
	}
	return s.Activate(id)
}

func (s Selection) String() string {
	if !s.active {
		return "none"
	}
	return fmt.Sprintf("active(%d)", s.id)
}
