package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/router"
	"github.com/abhisek/quizmind/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "" }
func (s *stubScreen) Title() string                          { return "Quiz" }

func testSummary() quiz.Summary {
	return quiz.Summary{
		TotalAnswered:         4,
		Correct:               3,
		Wrong:                 1,
		AverageSeconds:        12,
		Accuracy:              75,
		DurationSeconds:       48,
		Topic:                 quiz.TopicScience,
		DifficultyProgression: []quiz.Difficulty{quiz.Medium, quiz.Medium, quiz.Hard, quiz.Hard},
	}
}

func TestSummaryScreen_View(t *testing.T) {
	s := New(testSummary(), nil)
	view := s.View(100, 30)

	assert.Contains(t, view, "Great job!")
	assert.Contains(t, view, "75%")
	assert.Contains(t, view, "Science")
	assert.Contains(t, view, "48s")
	assert.Contains(t, view, "Hard")
}

func TestSummaryScreen_EnterReturnsHome(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeyEscape}} {
		s := New(testSummary(), nil)
		_, cmd := s.Update(key)
		require.NotNil(t, cmd)
		assert.Equal(t, router.PopToRootMsg{Refresh: true}, cmd())
	}
}

func TestSummaryScreen_PlayAgain(t *testing.T) {
	calls := 0
	s := New(testSummary(), func() screen.Screen {
		calls++
		return &stubScreen{}
	})

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.NotNil(t, msg.Screen)
	assert.Equal(t, 1, calls)

	_, cmd = s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	assert.Nil(t, cmd, "the screen only leaves once")
	assert.Len(t, s.KeyHints(), 2)
}

func TestSummaryScreen_PlayAgainDisabled(t *testing.T) {
	s := New(testSummary(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	assert.Nil(t, cmd)
	assert.Len(t, s.KeyHints(), 1)
}

func TestVerdict(t *testing.T) {
	tests := map[string]struct {
		accuracy int
		want     string
	}{
		"perfect":    {100, "Excellent!"},
		"ninety":     {90, "Excellent!"},
		"seventy":    {70, "Great job!"},
		"half":       {50, "Good work!"},
		"below half": {49, "Keep practicing!"},
		"zero":       {0, "Keep practicing!"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, _ := Verdict(tt.accuracy)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinalDifficulty(t *testing.T) {
	E, M, H := quiz.Easy, quiz.Medium, quiz.Hard
	tests := map[string]struct {
		levels []quiz.Difficulty
		want   quiz.Difficulty
	}{
		"empty":             {nil, ""},
		"single":            {[]quiz.Difficulty{E}, E},
		"second half wins":  {[]quiz.Difficulty{E, E, E, H, H, M}, H},
		"tie goes to first": {[]quiz.Difficulty{E, E, M, H}, M},
		"odd length":        {[]quiz.Difficulty{H, H, M, M, E}, M},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FinalDifficulty(tt.levels))
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "9s", FormatSeconds(9))
	assert.Equal(t, "1m 0s", FormatSeconds(60))
	assert.Equal(t, "2m 5s", FormatSeconds(125))
	assert.False(t, strings.Contains(FormatSeconds(0), "m"))
}
