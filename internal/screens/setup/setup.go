package setup

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

type step int

const (
	stepTopic step = iota
	stepDifficulty
)

// StartFunc builds the quiz screen for the chosen topic and difficulty.
type StartFunc func(quiz.Topic, quiz.Difficulty) screen.Screen

// SetupScreen picks a topic, then a starting difficulty, and replaces
// itself with the quiz.
type SetupScreen struct {
	start    StartFunc
	topics   []quiz.TopicInfo
	levels   []quiz.Difficulty
	step     step
	topicIdx int
	levelIdx int
	started  bool
}

var (
	_ screen.Screen          = (*SetupScreen)(nil)
	_ screen.KeyHintProvider = (*SetupScreen)(nil)
	_ screen.EscapeHandler   = (*SetupScreen)(nil)
)

// New preselects the given defaults.
func New(start StartFunc, defTopic quiz.Topic, defLevel quiz.Difficulty) *SetupScreen {
	s := &SetupScreen{
		start:  start,
		topics: quiz.Topics(),
		levels: quiz.Difficulties(),
	}
	for i, t := range s.topics {
		if t.ID == defTopic {
			s.topicIdx = i
		}
	}
	for i, l := range s.levels {
		if l == defLevel {
			s.levelIdx = i
		}
	}
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Quiz"
}

func (s *SetupScreen) HandlesEscape() bool {
	return true
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

// Topic returns the highlighted topic.
func (s *SetupScreen) Topic() quiz.Topic {
	return s.topics[s.topicIdx].ID
}

// Difficulty returns the highlighted difficulty.
func (s *SetupScreen) Difficulty() quiz.Difficulty {
	return s.levels[s.levelIdx]
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || s.started {
		return s, nil
	}

	n := len(s.topics)
	cur := &s.topicIdx
	if s.step == stepDifficulty {
		n = len(s.levels)
		cur = &s.levelIdx
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if *cur > 0 {
			*cur--
		}
	case "down", "j":
		if *cur < n-1 {
			*cur++
		}
	case "enter":
		return s, s.choose()
	case "esc":
		if s.step == stepDifficulty {
			s.step = stepTopic
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < n {
			*cur = int(key[0] - '1')
			return s, s.choose()
		}
	}
	return s, nil
}

func (s *SetupScreen) choose() tea.Cmd {
	if s.step == stepTopic {
		s.step = stepDifficulty
		return nil
	}
	s.started = true
	next := s.start(s.Topic(), s.Difficulty())
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var heading string
	var b strings.Builder
	if s.step == stepTopic {
		heading = "Choose a topic"
		for i, t := range s.topics {
			s.writeRow(&b, i, i == s.topicIdx, t.Name, t.Description, theme.TopicColor(t.ID))
		}
	} else {
		heading = "Starting difficulty for " + s.topics[s.topicIdx].Name
		for i, l := range s.levels {
			s.writeRow(&b, i, i == s.levelIdx, l.Label(), "", theme.DifficultyColor(l))
		}
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("The level adapts as you answer."))
	}

	body := theme.Title.Render(heading) + "\n\n" + b.String()
	return components.Center(components.Card(body, cw, theme.Primary), width, height)
}

func (s *SetupScreen) writeRow(b *strings.Builder, i int, active bool, label, desc string, accent color.Color) {
	dot := lipgloss.NewStyle().Foreground(accent).Render("●")
	line := fmt.Sprintf("%d. %s", i+1, label)
	if active {
		b.WriteString(theme.Selected.Render("▸ ") + dot + " " + theme.Selected.Render(line))
		if desc != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("      " + desc))
		}
	} else {
		b.WriteString("  " + dot + " " + theme.Unselected.Render(line))
	}
	b.WriteString("\n")
}
