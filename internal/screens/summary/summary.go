package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
	"github.com/abhisek/quizmind/internal/ui/components"
	"github.com/abhisek/quizmind/internal/ui/layout"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

// SummaryScreen shows the results of a finished quiz.
type SummaryScreen struct {
	summary   quiz.Summary
	playAgain func() screen.Screen
	left      bool
}

var (
	_ screen.Screen          = (*SummaryScreen)(nil)
	_ screen.KeyHintProvider = (*SummaryScreen)(nil)
	_ screen.EscapeHandler   = (*SummaryScreen)(nil)
)

// New builds the screen. playAgain may be nil, which hides the option.
func New(summary quiz.Summary, playAgain func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: summary, playAgain: playAgain}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) HandlesEscape() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.playAgain != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Play again"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || s.left {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc", "q":
		s.left = true
		return s, func() tea.Msg { return router.PopToRootMsg{Refresh: true} }
	case "r":
		if s.playAgain == nil {
			return s, nil
		}
		s.left = true
		next := s.playAgain()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)

	verdict, vc := Verdict(sum.Accuracy)

	var b strings.Builder
	b.WriteString(layout.Centered(cw, lipgloss.NewStyle().Foreground(vc).Bold(true), verdict))
	b.WriteString("\n")
	if info, ok := quiz.LookupTopic(sum.Topic); ok {
		b.WriteString(layout.Centered(cw, lipgloss.NewStyle().Foreground(theme.TopicColor(sum.Topic)), info.Name))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(layout.Centered(cw, theme.Title, fmt.Sprintf("%d%%", sum.Accuracy)))
	b.WriteString("\n")
	b.WriteString(layout.Centered(cw, theme.Subtitle, "accuracy"))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Correct: %s    Wrong: %s    Avg time: %s    Total: %s",
		theme.Correct.Render(fmt.Sprint(sum.Correct)),
		theme.Incorrect.Render(fmt.Sprint(sum.Wrong)),
		FormatSeconds(sum.AverageSeconds),
		FormatSeconds(sum.DurationSeconds),
	)
	b.WriteString(layout.Centered(cw, theme.Body, stats))
	b.WriteString("\n\n")

	if len(sum.DifficultyProgression) > 0 {
		b.WriteString(layout.Centered(cw, theme.Subtitle, "Difficulty progression"))
		b.WriteString("\n")
		b.WriteString(layout.Centered(cw, lipgloss.NewStyle(), renderProgression(sum.DifficultyProgression)))
		b.WriteString("\n")
		final := FinalDifficulty(sum.DifficultyProgression)
		b.WriteString(layout.Centered(cw, theme.Hint,
			"You settled at "+lipgloss.NewStyle().Foreground(theme.DifficultyColor(final)).Render(final.Label())))
		b.WriteString("\n")
	}

	return components.Center(components.Card(b.String(), cw, vc), width, height)
}

func renderProgression(levels []quiz.Difficulty) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = lipgloss.NewStyle().Foreground(theme.DifficultyColor(l)).Render(strings.ToUpper(string(l)[:1]))
	}
	return strings.Join(parts, " ")
}

// Verdict returns the headline for an accuracy percentage.
func Verdict(accuracy int) (string, color.Color) {
	switch {
	case accuracy >= 90:
		return "Excellent!", theme.Success
	case accuracy >= 70:
		return "Great job!", theme.Primary
	case accuracy >= 50:
		return "Good work!", theme.Accent
	default:
		return "Keep practicing!", theme.TextDim
	}
}

// FinalDifficulty is the most frequent level in the second half of the
// progression. Ties go to the level seen first in that half.
func FinalDifficulty(levels []quiz.Difficulty) quiz.Difficulty {
	if len(levels) == 0 {
		return ""
	}
	half := levels[len(levels)/2:]
	counts := make(map[quiz.Difficulty]int, 3)
	var order []quiz.Difficulty
	for _, l := range half {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}
	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}

// FormatSeconds renders 75 as "1m 15s" and 9 as "9s".
func FormatSeconds(n int) string {
	if n >= 60 {
		return fmt.Sprintf("%dm %ds", n/60, n%60)
	}
	return fmt.Sprintf("%ds", n)
}
