package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗███╗   ███╗██╗███╗   ██╗██████╗
 ██╔═══██╗██║   ██║██║╚══███╔╝████╗ ████║██║████╗  ██║██╔══██╗
 ██║   ██║██║   ██║██║  ███╔╝ ██╔████╔██║██║██╔██╗ ██║██║  ██║
 ██║▄▄ ██║██║   ██║██║ ███╔╝  ██║╚██╔╝██║██║██║╚██╗██║██║  ██║
 ╚██████╔╝╚██████╔╝██║███████╗██║ ╚═╝ ██║██║██║ ╚████║██████╔╝
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝`

const bannerCompact = "Q U I Z M I N D"

// RenderBanner returns the QUIZMIND banner styled in the primary color.
// Terminals narrower than 66 columns get the compact form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 66 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
