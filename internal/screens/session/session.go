// Package session is the quiz play screen. It drives a session.Machine
// and renders whatever state the machine reports.
package session

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
	"github.com/abhisek/quizmind/internal/screens"
	sess "github.com/abhisek/quizmind/internal/session"
	"github.com/abhisek/quizmind/internal/ui/components"
	"github.com/abhisek/quizmind/internal/ui/layout"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

const (
	buttonRetry = iota
	buttonHome
)

// SessionScreen plays one quiz.
type SessionScreen struct {
	deps    *screens.Deps
	machine *sess.Machine
	ctx     context.Context
	cancel  context.CancelFunc
	now     func() time.Time

	topic quiz.Topic
	level quiz.Difficulty

	state       sess.State
	err         error
	questionID  string
	cursor      int
	button      int
	confirmQuit bool
	left        bool
	closed      bool

	spinner spinner.Model
}

var (
	_ screen.Screen          = (*SessionScreen)(nil)
	_ screen.KeyHintProvider = (*SessionScreen)(nil)
	_ screen.EscapeHandler   = (*SessionScreen)(nil)
	_ screen.Disposer        = (*SessionScreen)(nil)
)

// New creates a quiz screen for topic and level. The quiz starts in Init.
func New(deps *screens.Deps, topic quiz.Topic, level quiz.Difficulty) *SessionScreen {
	ctx, cancel := context.WithCancel(context.Background())
	now := deps.Session.Now
	if now == nil {
		now = time.Now
	}
	return &SessionScreen{
		deps:    deps,
		machine: deps.NewMachine(),
		ctx:     ctx,
		cancel:  cancel,
		now:     now,
		topic:   topic,
		level:   level,
		state:   sess.Loading{Topic: topic, Difficulty: level},
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.spinner.Tick, tickCmd())
}

func (s *SessionScreen) Title() string {
	if info, ok := quiz.LookupTopic(s.topic); ok {
		return info.Name
	}
	return "Quiz"
}

func (s *SessionScreen) HandlesEscape() bool {
	return true
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch st := s.state.(type) {
	case sess.Playing:
		if st.Selected == "" {
			return []layout.KeyHint{
				{Key: "↑↓", Description: "Move"},
				{Key: "1-4", Description: "Pick"},
				{Key: "Esc", Description: "Quit"},
			}
		}
		return []layout.KeyHint{
			{Key: "1-4", Description: "Change"},
			{Key: "Enter", Description: "Confirm"},
			{Key: "Esc", Description: "Quit"},
		}
	case sess.Answered:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	case sess.Failed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "H", Description: "Home"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
}

// State returns the last state reported by the machine.
func (s *SessionScreen) State() sess.State {
	return s.state
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return s.handleState(msg)

	case timerTickMsg:
		if s.left {
			return s, nil
		}
		return s, tickCmd()

	case spinner.TickMsg:
		if !s.loading() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.left {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) loading() bool {
	_, ok := s.state.(sess.Loading)
	return ok
}

func (s *SessionScreen) handleState(msg stateMsg) (screen.Screen, tea.Cmd) {
	if s.left || errors.Is(msg.Err, sess.ErrStale) {
		return s, nil
	}
	s.apply(msg.State, msg.Err)

	if f, ok := s.state.(sess.Finished); ok {
		s.left = true
		sum := quiz.Summarize(f.Session)
		next := newSummaryScreen(s.deps, sum, f.Session.CurrentDifficulty)
		s.close()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, nil
}

// apply records a new machine state. The cursor resets when a new
// question arrives.
func (s *SessionScreen) apply(st sess.State, err error) {
	s.state = st
	s.err = err
	switch st := st.(type) {
	case sess.Playing:
		if st.Question != nil && st.Question.ID != s.questionID {
			s.questionID = st.Question.ID
			s.cursor = 0
		}
	case sess.Failed:
		s.button = buttonRetry
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, s.abandon()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch st := s.state.(type) {
	case sess.Playing:
		return s.handlePlayingKey(st, key)

	case sess.Answered:
		switch key {
		case "enter", "space", "n":
			return s, s.next()
		case "esc":
			s.confirmQuit = true
		}

	case sess.Failed:
		switch key {
		case "r":
			return s, s.retry(st)
		case "h", "esc":
			return s, s.abandon()
		case "left", "right", "tab":
			s.button = 1 - s.button
		case "enter":
			if s.button == buttonHome {
				return s, s.abandon()
			}
			return s, s.retry(st)
		}

	case sess.Loading:
		if key == "esc" {
			s.confirmQuit = true
		}
	}
	return s, nil
}

func (s *SessionScreen) handlePlayingKey(st sess.Playing, key string) (screen.Screen, tea.Cmd) {
	options := st.Question.Options
	switch key {
	case "esc":
		s.confirmQuit = true
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(options)-1 {
			s.cursor++
		}
	case "space":
		s.selectOption(options[s.cursor].ID)
	case "enter":
		if st.Selected == "" {
			s.selectOption(options[s.cursor].ID)
		}
		s.apply(s.machine.Confirm())
	default:
		if id, ok := components.OptionIDForKey(options, key); ok {
			s.selectOption(id)
			for i, o := range options {
				if o.ID == id {
					s.cursor = i
				}
			}
		}
	}
	return s, nil
}

func (s *SessionScreen) selectOption(id string) {
	s.apply(s.machine.SelectOption(id))
}

func (s *SessionScreen) start() tea.Cmd {
	m, ctx, topic, level := s.machine, s.ctx, s.topic, s.level
	return func() tea.Msg {
		st, err := m.Start(ctx, topic, level)
		return stateMsg{State: st, Err: err}
	}
}

func (s *SessionScreen) next() tea.Cmd {
	if a, ok := s.state.(sess.Answered); ok && !a.Session.Done() {
		s.state = sess.Loading{Session: a.Session, Topic: s.topic}
	}
	m, ctx := s.machine, s.ctx
	return tea.Batch(func() tea.Msg {
		st, err := m.Next(ctx)
		return stateMsg{State: st, Err: err}
	}, s.spinner.Tick)
}

// retry asks again mid-quiz, or restarts with the same choices when the
// first question never arrived.
func (s *SessionScreen) retry(f sess.Failed) tea.Cmd {
	m, ctx := s.machine, s.ctx
	s.err = nil
	s.state = sess.Loading{Session: f.Session, Topic: f.Topic, Difficulty: f.Difficulty}
	if f.Session == nil {
		return tea.Batch(s.start(), s.spinner.Tick)
	}
	return tea.Batch(func() tea.Msg {
		st, err := m.Retry(ctx)
		return stateMsg{State: st, Err: err}
	}, s.spinner.Tick)
}

// abandon drops the quiz and returns home. Writes already queued still
// reach the store.
func (s *SessionScreen) abandon() tea.Cmd {
	s.left = true
	s.confirmQuit = false
	s.machine.Reset()
	s.close()
	return func() tea.Msg { return router.PopToRootMsg{Refresh: true} }
}

// Dispose releases the machine when the router drops the screen.
func (s *SessionScreen) Dispose() {
	s.left = true
	s.close()
}

func (s *SessionScreen) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	s.machine.Close()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
