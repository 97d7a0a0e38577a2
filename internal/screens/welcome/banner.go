package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/classquiz/internal/ui/theme"
)

const bannerArt = `
  ____ _                ___        _
 / ___| | __ _ ___ ___ / _ \ _   _(_)____
| |   | |/ _' / __/ __| | | | | | | |_  /
| |___| | (_| \__ \__ \ |_| | |_| | |/ /
 \____|_|\__,_|___/___/\__\_\\__,_|_/___|`

const bannerCompact = "C L A S S Q U I Z"

// RenderBanner returns the banner styled in the primary color, falling
// back to a single line on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 48 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
