package profile

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmind/internal/config"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
	"github.com/abhisek/quizmind/internal/screens"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "" }
func (s *stubScreen) Title() string                          { return "Home" }

func typeText(p *ProfileScreen, text string) {
	for _, r := range text {
		p.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(t *testing.T, p *ProfileScreen) tea.Msg {
	t.Helper()
	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		return nil
	}
	_, cmd = p.Update(cmd())
	require.NotNil(t, cmd)
	return cmd()
}

func TestProfile_FirstRunSavesAndContinues(t *testing.T) {
	var saved string
	deps := &screens.Deps{SaveProfile: func(name string) (config.UserConfig, error) {
		saved = name
		return config.UserConfig{ID: "u-1", Name: name}, nil
	}}
	p := New(deps, func() screen.Screen { return &stubScreen{} })

	typeText(p, "Ada")
	msg := enter(t, p)

	assert.Equal(t, "Ada", saved)
	assert.Equal(t, config.UserConfig{ID: "u-1", Name: "Ada"}, deps.User)
	assert.IsType(t, router.ReplaceScreenMsg{}, msg)
}

func TestProfile_EditReturnsHome(t *testing.T) {
	deps := &screens.Deps{
		User: config.UserConfig{ID: "u-1", Name: "Ada"},
		SaveProfile: func(name string) (config.UserConfig, error) {
			return config.UserConfig{ID: "u-1", Name: name}, nil
		},
	}
	p := New(deps, nil)
	assert.Equal(t, "Ada", p.input.Value())

	typeText(p, "!")
	msg := enter(t, p)
	assert.Equal(t, "Ada!", deps.User.Name)
	assert.Equal(t, router.PopToRootMsg{Refresh: true}, msg)
}

func TestProfile_EmptyNameRejected(t *testing.T) {
	p := New(&screens.Deps{}, nil)
	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, p.View(100, 30), "Please enter a name.")
}

func TestProfile_SaveFailureShowsError(t *testing.T) {
	deps := &screens.Deps{SaveProfile: func(string) (config.UserConfig, error) {
		return config.UserConfig{}, errors.New("read-only file system")
	}}
	p := New(deps, nil)
	typeText(p, "Ada")

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = p.Update(cmd())
	assert.Nil(t, cmd)
	assert.Contains(t, p.View(100, 30), "Could not save")
	assert.Empty(t, deps.User.Name)
}

func TestProfile_EscapeSkipsOnFirstRun(t *testing.T) {
	p := New(&screens.Deps{}, func() screen.Screen { return &stubScreen{} })
	assert.Equal(t, "Play as guest", p.KeyHints()[1].Description)

	_, cmd := p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.ReplaceScreenMsg{}, cmd())
}
