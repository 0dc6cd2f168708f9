package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
	"github.com/abhisek/quizmind/internal/store"
	"github.com/abhisek/quizmind/internal/ui/layout"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

// Limit is the number of sessions listed.
const Limit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRow
	Err      error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerRow
	Err       error
}

// HistoryScreen lists a player's past quizzes, newest first. Enter
// expands a quiz and loads its answers on first use.
type HistoryScreen struct {
	repo     store.SessionRepo
	userID   string
	sessions []store.SessionRow
	answers  map[string][]store.AnswerRow
	failed   map[string]bool
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(repo store.SessionRepo, userID string) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		userID:   userID,
		answers:  make(map[string][]store.AnswerRow),
		failed:   make(map[string]bool),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, userID := s.repo, s.userID
	return func() tea.Msg {
		sessions, err := repo.ListSessions(context.Background(), userID, Limit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) loadAnswers(id string) tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		answers, err := repo.SessionAnswers(context.Background(), id)
		return answersLoadedMsg{SessionID: id, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.failed[msg.SessionID] = true
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].ID
			if _, ok := s.answers[id]; s.expanded[s.selected] && !ok {
				delete(s.failed, id)
				return s, s.loadAnswers(id)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Start one from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, row := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+FormatRow(row))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(row.ID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(id string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	line := func(st lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, st.Render(text)) + "\n"
	}

	if s.failed[id] {
		return line(lipgloss.NewStyle().Foreground(theme.Error), "    Could not load answers")
	}
	answers, ok := s.answers[id]
	if !ok {
		return line(dim, "    Loading answers...")
	}
	if len(answers) == 0 {
		return line(dim, "    No answers recorded")
	}

	var b strings.Builder
	for n, a := range answers {
		mark, st := "✓", theme.Correct
		if !a.IsCorrect {
			mark, st = "✗", theme.Incorrect
		}
		b.WriteString(line(st, fmt.Sprintf("    %s %d. %s", mark, n+1, truncate(a.Question, 60))))
		if !a.IsCorrect {
			b.WriteString(line(dim, fmt.Sprintf("        you: %s  answer: %s", a.Selected, a.Correct)))
		}
	}
	return b.String()
}

// FormatRow renders one history line: date, topic, level, score and an
// incomplete marker for quizzes that were not finished.
func FormatRow(row store.SessionRow) string {
	topic := row.Topic
	if info, ok := quiz.LookupTopic(quiz.Topic(row.Topic)); ok {
		topic = info.Name
	}
	level := quiz.Difficulty(row.InitialLevel).Label()

	s := fmt.Sprintf("%s  %-17s  %-6s  %d/%d  %3d%%",
		row.StartedAt.Local().Format("Jan 02 15:04"),
		topic, level,
		row.CorrectAnswers, row.TotalQuestions,
		quiz.Percent(row.CorrectAnswers, row.TotalQuestions))
	if !row.Complete() {
		s += "  incomplete"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
