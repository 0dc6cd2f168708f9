package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/ui/theme"
)

// Button is a styled button.
type Button struct {
	Label  string
	Key    string
	Active bool
}

// View renders the button with its shortcut key.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = "[" + b.Key + "] " + label
	}
	if b.Active {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side, centered in width.
func ButtonRow(buttons []Button, width int) string {
	views := make([]string, 0, len(buttons)*2)
	for i, b := range buttons {
		if i > 0 {
			views = append(views, strings.Repeat(" ", 2))
		}
		views = append(views, b.View())
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, views...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, row)
}
