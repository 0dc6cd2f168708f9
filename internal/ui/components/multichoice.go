package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

// OptionList renders the four options of a question. Before the answer is
// revealed the cursor row is highlighted and the selected option marked;
// afterwards the correct option is green and a wrong pick red.
type OptionList struct {
	Options  []quiz.Option
	Cursor   int
	Selected string
	Revealed bool
}

// OptionIDForKey maps the keys 1-4 and a-d to an option id.
func OptionIDForKey(options []quiz.Option, key string) (string, bool) {
	if len(key) != 1 {
		return "", false
	}
	var idx int
	switch c := key[0]; {
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	default:
		return "", false
	}
	if idx >= len(options) {
		return "", false
	}
	return options[idx].ID, true
}

// View renders the list.
func (l OptionList) View() string {
	var b strings.Builder
	for i, opt := range l.Options {
		marker := "  "
		if !l.Revealed && i == l.Cursor {
			marker = "▸ "
		}
		check := "○"
		if opt.ID == l.Selected {
			check = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", marker, check, strings.ToUpper(opt.ID), opt.Text)

		var style lipgloss.Style
		switch {
		case l.Revealed && opt.IsCorrect:
			style = theme.Correct
		case l.Revealed && opt.ID == l.Selected:
			style = theme.Incorrect
		case l.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == l.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
