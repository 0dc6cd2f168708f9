package setup

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
)

type stubScreen struct {
	topic quiz.Topic
	level quiz.Difficulty
}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "" }
func (s *stubScreen) Title() string                          { return "Quiz" }

func newSetup() *SetupScreen {
	return New(func(t quiz.Topic, l quiz.Difficulty) screen.Screen {
		return &stubScreen{topic: t, level: l}
	}, quiz.TopicHistory, quiz.Medium)
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestSetup_Defaults(t *testing.T) {
	s := newSetup()
	assert.Equal(t, quiz.TopicHistory, s.Topic())
	assert.Equal(t, quiz.Medium, s.Difficulty())
	assert.Contains(t, s.View(100, 30), "Choose a topic")
}

func TestSetup_PickTopicThenLevel(t *testing.T) {
	s := newSetup()

	s.Update(key(tea.KeyDown))
	_, cmd := s.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, stepDifficulty, s.step)
	assert.Contains(t, s.View(100, 30), "Starting difficulty")

	s.Update(key(tea.KeyUp))
	_, cmd = s.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	got := msg.Screen.(*stubScreen)
	assert.Equal(t, quiz.TopicMathematics, got.topic)
	assert.Equal(t, quiz.Easy, got.level)

	_, cmd = s.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd, "a started quiz ignores further keys")
}

func TestSetup_NumberKeysChoose(t *testing.T) {
	s := newSetup()
	s.Update(tea.KeyPressMsg{Code: '5', Text: "5"})
	assert.Equal(t, quiz.TopicScience, s.Topic())

	_, cmd := s.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	require.NotNil(t, cmd)
	got := cmd().(router.ReplaceScreenMsg).Screen.(*stubScreen)
	assert.Equal(t, quiz.Hard, got.level)
}

func TestSetup_EscapeSteps(t *testing.T) {
	s := newSetup()
	s.Update(key(tea.KeyEnter))

	_, cmd := s.Update(key(tea.KeyEscape))
	assert.Nil(t, cmd)
	assert.Equal(t, stepTopic, s.step)

	_, cmd = s.Update(key(tea.KeyEscape))
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}
