package components

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

// AnswerTrack shows one segment per question of a quiz: green or rose for
// answered questions, amber for the current one and slate for the rest.
type AnswerTrack struct {
	Answers []quiz.Answer
	Total   int
	Width   int
}

// View renders the track. Segments share Width evenly; a track too narrow
// for one cell per question falls back to a proportional bar.
func (t AnswerTrack) View() string {
	total := max(t.Total, 1)
	answered := min(len(t.Answers), total)
	width := max(t.Width, 4)

	if width < total {
		filled := width * answered / total
		return block(theme.Secondary, filled) + block(theme.Border, width-filled)
	}

	seg := width / total
	gap := 0
	if seg >= 3 {
		gap = 1
	}

	var b strings.Builder
	for i := range total {
		var c color.Color
		switch {
		case i < answered && t.Answers[i].IsCorrect:
			c = theme.Success
		case i < answered:
			c = theme.Error
		case i == answered:
			c = theme.Accent
		default:
			c = theme.Border
		}
		b.WriteString(block(c, seg-gap))
		if gap > 0 && i < total-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func block(c color.Color, n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(c).Render(strings.Repeat(" ", n))
}
