package session

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/quiz"
	sess "github.com/abhisek/quizmind/internal/session"
	"github.com/abhisek/quizmind/internal/ui/components"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}

	cw := components.ContentWidth(width)
	var body string
	switch st := s.state.(type) {
	case sess.Loading:
		body = s.renderLoading(st, cw)
	case sess.Playing:
		body = s.renderQuestion(st, cw)
	case sess.Answered:
		body = s.renderFeedback(st, cw)
	case sess.Failed:
		body = s.renderError(st, cw)
	default:
		body = theme.Hint.Render("Returning home...")
	}

	return components.Center(body, width, height)
}

// renderInfo is the line above the question card: topic, level, question
// number, score and the question timer.
func (s *SessionScreen) renderInfo(session *quiz.Session, level quiz.Difficulty, started time.Time, cw int) string {
	topic := lipgloss.NewStyle().Foreground(theme.TopicColor(s.topic)).Bold(true).Render(s.Title())
	left := topic
	if level != "" {
		left += "  " + lipgloss.NewStyle().Foreground(theme.DifficultyColor(level)).Render("● "+level.Label())
	}

	var right string
	if session != nil {
		n := min(len(session.Answers)+1, session.TotalQuestions)
		right = fmt.Sprintf("Q %d/%d  %s %d",
			n, session.TotalQuestions,
			theme.Correct.Render("✓"), session.CorrectCount())
	}
	if !started.IsZero() {
		secs := max(int(s.now().Sub(started).Seconds()), 0)
		right += fmt.Sprintf("  %s %d:%02d",
			lipgloss.NewStyle().Foreground(theme.Accent).Render("⏱"), secs/60, secs%60)
	}
	right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)

	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + strings.Repeat(" ", gap) + right

	if session == nil {
		return line
	}
	track := components.AnswerTrack{Answers: session.Answers, Total: session.TotalQuestions, Width: cw}
	return line + "\n" + track.View()
}

func (s *SessionScreen) renderLoading(st sess.Loading, cw int) string {
	level := st.Difficulty
	if level == "" && st.Session != nil {
		level = st.Session.CurrentDifficulty
	}

	msg := "Generating your first question..."
	if st.Session != nil {
		msg = "Generating the next question..."
	}
	card := components.Card(s.spinner.View()+" "+theme.Body.Render(msg), cw, theme.Border)
	return s.renderInfo(st.Session, level, time.Time{}, cw) + "\n\n" + card
}

func (s *SessionScreen) renderQuestion(st sess.Playing, cw int) string {
	q := st.Question
	text := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(cw - 6).
		Render(q.Text)

	list := components.OptionList{
		Options:  q.Options,
		Cursor:   s.cursor,
		Selected: st.Selected,
	}

	hint := "Pick an answer with 1-4 or a-d."
	if st.Selected != "" {
		hint = "Press Enter to confirm."
	}

	card := components.Card(text+"\n\n"+list.View()+"\n"+theme.Hint.Render(hint), cw, theme.TopicColor(s.topic))
	return s.renderInfo(st.Session, q.Difficulty, st.StartedAt, cw) + "\n\n" + card
}

func (s *SessionScreen) renderFeedback(st sess.Answered, cw int) string {
	q := st.Question

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 6).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(components.OptionList{
		Options:  q.Options,
		Selected: st.Answer.SelectedOptionID,
		Revealed: true,
	}.View())
	b.WriteString("\n")

	border := theme.Success
	if st.Answer.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		border = theme.Error
		b.WriteString(theme.Incorrect.Render("Not quite."))
		if c, ok := q.CorrectOption(); ok {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("  The answer was %s) %s", strings.ToUpper(c.ID), c.Text)))
		}
	}
	b.WriteString("\n")

	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(cw - 6).Render(q.Explanation))
		b.WriteString("\n")
	}

	next := "Press Enter for the next question."
	if st.Session.Done() {
		next = "Press Enter to see your results."
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(next))

	return s.renderInfo(st.Session, st.Answer.Difficulty, time.Time{}, cw) + "\n\n" + components.Card(b.String(), cw, border)
}

func (s *SessionScreen) renderError(st sess.Failed, cw int) string {
	msg := sess.UserMessage(st.Err)
	if msg == "" {
		msg = sess.UserMessage(s.err)
	}

	retry := "Try again"
	if st.Session == nil {
		retry = "Start again"
	}
	buttons := components.ButtonRow([]components.Button{
		{Label: retry, Key: "R", Active: s.button == buttonRetry},
		{Label: "Home", Key: "H", Active: s.button == buttonHome},
	}, cw-6)

	body := theme.Incorrect.Render("Something went wrong") + "\n\n" +
		theme.Body.Width(cw-6).Render(msg) + "\n\n" + buttons
	return s.renderInfo(st.Session, st.Difficulty, time.Time{}, cw) + "\n\n" + components.Card(body, cw, theme.Error)
}

func renderQuitConfirm(width, height int) string {
	body := theme.Title.Render("Leave this quiz?") + "\n\n" +
		theme.Subtitle.Render("Answers so far are kept in your history.") + "\n\n" +
		theme.Correct.Render("[Y] Yes, leave") + "\n" +
		theme.Selected.Render("[N] No, keep going")
	return components.Center(components.Card(body, min(width-6, 48), theme.Accent), width, height)
}
