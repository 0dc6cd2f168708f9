package profile

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmind/internal/config"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
	"github.com/abhisek/quizmind/internal/screens"
	"github.com/abhisek/quizmind/internal/ui/components"
	"github.com/abhisek/quizmind/internal/ui/layout"
	"github.com/abhisek/quizmind/internal/ui/theme"
)

const nameLimit = 32

type savedMsg struct {
	user config.UserConfig
	err  error
}

// ProfileScreen asks for the player's name. On first run next builds the
// screen that follows; otherwise the screen returns to the root.
type ProfileScreen struct {
	deps   *screens.Deps
	next   func() screen.Screen
	input  components.TextInput
	saving bool
}

var (
	_ screen.Screen          = (*ProfileScreen)(nil)
	_ screen.KeyHintProvider = (*ProfileScreen)(nil)
	_ screen.EscapeHandler   = (*ProfileScreen)(nil)
)

func New(deps *screens.Deps, next func() screen.Screen) *ProfileScreen {
	input := components.NewTextInput("your name", nameLimit)
	if deps.User.Name != "" {
		input.Model.SetValue(deps.User.Name)
		input.Model.CursorEnd()
	}
	return &ProfileScreen{deps: deps, next: next, input: input}
}

func (p *ProfileScreen) Init() tea.Cmd {
	return p.input.Init()
}

func (p *ProfileScreen) Title() string {
	return "Profile"
}

func (p *ProfileScreen) HandlesEscape() bool {
	return true
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	leave := "Back"
	if p.next != nil {
		leave = "Play as guest"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: leave},
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		p.saving = false
		if msg.err != nil {
			p.deps.Log().Error("profile: save failed", "error", msg.err)
			p.input.SetError("Could not save your profile.")
			return p, nil
		}
		p.deps.User = msg.user
		return p, p.leave()

	case tea.KeyPressMsg:
		if p.saving {
			return p, nil
		}
		switch msg.String() {
		case "esc":
			return p, p.leave()
		case "enter":
			name := p.input.Value()
			if name == "" {
				p.input.SetError("Please enter a name.")
				return p, nil
			}
			p.saving = true
			return p, p.save(name)
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *ProfileScreen) save(name string) tea.Cmd {
	saveProfile := p.deps.SaveProfile
	if saveProfile == nil {
		return func() tea.Msg {
			return savedMsg{user: config.UserConfig{Name: name}}
		}
	}
	return func() tea.Msg {
		user, err := saveProfile(name)
		return savedMsg{user: user, err: err}
	}
}

func (p *ProfileScreen) leave() tea.Cmd {
	if p.next != nil {
		s := p.next()
		p.next = nil
		return func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: s}
		}
	}
	return func() tea.Msg {
		return router.PopToRootMsg{Refresh: true}
	}
}

func (p *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	prompt := theme.Title.Render("What should we call you?")
	sub := theme.Subtitle.Render("Your name is shown in the header and your quizzes are saved under it.")

	body := lipgloss.JoinVertical(lipgloss.Left, prompt, "", sub, "", p.input.View())
	if p.saving {
		body += "\n\n" + theme.Hint.Render("Saving...")
	}

	return components.Center(components.Card(body, cw, theme.Primary), width, height)
}
