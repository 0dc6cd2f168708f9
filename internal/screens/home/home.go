package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
	"github.com/abhisek/quizmind/internal/screens"
	"github.com/abhisek/quizmind/internal/screens/history"
	"github.com/abhisek/quizmind/internal/screens/notice"
	"github.com/abhisek/quizmind/internal/screens/profile"
	sessionscreen "github.com/abhisek/quizmind/internal/screens/session"
	"github.com/abhisek/quizmind/internal/screens/setup"
	"github.com/abhisek/quizmind/internal/store"
	"github.com/abhisek/quizmind/internal/ui/components"
	"github.com/abhisek/quizmind/internal/ui/layout"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

// statsWindow is how many recent quizzes feed the home stats.
const statsWindow = 20

type statsLoadedMsg struct {
	Sessions []store.SessionRow
	Err      error
}

// Stats summarizes recent quizzes for the home screen.
type Stats struct {
	Played       int
	Finished     int
	Accuracy     int
	Best         int
	LastAccuracy int
}

// ComputeStats aggregates sessions, newest first. Accuracy is over all
// answers; Best and LastAccuracy only consider finished quizzes.
func ComputeStats(rows []store.SessionRow) Stats {
	var st Stats
	var answered, correct int
	lastSeen := false
	for _, r := range rows {
		st.Played++
		answered += r.TotalQuestions
		correct += r.CorrectAnswers
		if !r.Complete() {
			continue
		}
		st.Finished++
		acc := quiz.Percent(r.CorrectAnswers, r.TotalQuestions)
		st.Best = max(st.Best, acc)
		if !lastSeen {
			st.LastAccuracy = acc
			lastSeen = true
		}
	}
	st.Accuracy = quiz.Percent(correct, answered)
	return st
}

// HomeScreen is the root screen: greeting, stats and the main menu.
type HomeScreen struct {
	deps    *screens.Deps
	menu    components.Menu
	stats   Stats
	loaded  bool
	statErr bool
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

func New(deps *screens.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	d := h.deps
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}
	startQuiz := func(t quiz.Topic, l quiz.Difficulty) screen.Screen {
		return sessionscreen.New(d, t, l)
	}

	quick := "Default topic and level"
	if info, ok := quiz.LookupTopic(d.DefaultTopic); ok {
		quick = info.Name + " · " + d.DefaultDifficulty.Label()
	}

	items := []components.MenuItem{
		{Label: "START QUIZ", Hint: "Pick a topic and a starting level", Action: push(func() screen.Screen {
			return setup.New(startQuiz, d.DefaultTopic, d.DefaultDifficulty)
		})},
		{Label: "QUICK PLAY", Hint: quick, Action: push(func() screen.Screen {
			return startQuiz(d.DefaultTopic, d.DefaultDifficulty)
		})},
		{Label: "HISTORY", Hint: "Your past quizzes", Action: push(func() screen.Screen {
			if !d.HasHistory() {
				return notice.New("History", "History is kept once you set a player name\nand a database is available.")
			}
			return history.New(d.Sessions, d.User.ID)
		})},
	}
	if d.SaveProfile != nil {
		items = append(items, components.MenuItem{Label: "PROFILE", Hint: "Change your player name", Action: push(func() screen.Screen {
			return profile.New(d, nil)
		})})
	}
	items = append(items, components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
		return tea.Quit
	}})
	return items
}

// Init loads the stats. It runs again whenever the app returns home.
func (h *HomeScreen) Init() tea.Cmd {
	if !h.deps.HasHistory() {
		h.loaded = true
		return nil
	}
	repo, userID := h.deps.Sessions, h.deps.User.ID
	return func() tea.Msg {
		rows, err := repo.ListSessions(context.Background(), userID, statsWindow)
		return statsLoadedMsg{Sessions: rows, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(statsLoadedMsg); ok {
		h.loaded = true
		if m.Err != nil {
			h.statErr = true
			h.deps.Log().Warn("home: load stats", "error", m.Err)
			return h, nil
		}
		h.statErr = false
		h.stats = ComputeStats(m.Sessions)
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// Mascot picks the mascot for the current stats.
func (h *HomeScreen) Mascot() MascotVariant {
	switch {
	case h.stats.Played == 0:
		return MascotCurious
	case h.stats.Finished > 0 && h.stats.LastAccuracy >= celebrateAccuracy:
		return MascotCelebrating
	}
	return MascotIdle
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompact(width, height+8)
	cw := components.ContentWidth(width)

	name := h.deps.User.Name
	if name == "" {
		name = "there"
	}
	greeting := theme.Title.Render(fmt.Sprintf("Hi, %s!", name))

	var sections []string
	if compact {
		sections = append(sections, layout.Centered(cw, lipgloss.NewStyle(), greeting))
	} else {
		top := lipgloss.JoinHorizontal(lipgloss.Center, RenderMascot(h.Mascot()), "   ", greeting)
		sections = append(sections, layout.Centered(cw, lipgloss.NewStyle(), top))
	}

	sections = append(sections, components.Card(h.renderStats(), cw, theme.Border))
	sections = append(sections, components.Card(h.menu.View(), cw, theme.Primary))

	return components.Center(strings.Join(sections, "\n"), width, height)
}

func (h *HomeScreen) renderStats() string {
	switch {
	case !h.deps.HasHistory():
		return theme.Hint.Render("Playing as guest. Quizzes are not saved.")
	case !h.loaded:
		return theme.Hint.Render("Loading your stats...")
	case h.statErr:
		return theme.Hint.Render("Stats are unavailable right now.")
	case h.stats.Played == 0:
		return theme.Hint.Render("No quizzes yet. Start one below!")
	}

	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	cell := func(l, v string) string {
		return label.Render(l+" ") + value.Render(v)
	}
	return strings.Join([]string{
		cell("Quizzes", fmt.Sprint(h.stats.Played)),
		cell("Accuracy", fmt.Sprintf("%d%%", h.stats.Accuracy)),
		cell("Best", fmt.Sprintf("%d%%", h.stats.Best)),
	}, "    ")
}
