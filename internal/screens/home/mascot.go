package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // last quiz scored at least celebrateAccuracy
	MascotCurious                   // no quizzes yet
)

const celebrateAccuracy = 80

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ? ! │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ? ! │
└─╥═╥─┘
  ╚═╝`

const mascotCurious = `┌─────┐
│ ◉ ◉ │ ?
│  ▽  │
│ ? ! │
└─────┘`

// RenderMascot returns the mascot art for v.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Accent
	case MascotCurious:
		art = mascotCurious
		fg = theme.Secondary
	}

	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
