package session

import (
	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/screen"
	"github.com/abhisek/quizmind/internal/screens"
	"github.com/abhisek/quizmind/internal/screens/summary"
)

// newSummaryScreen shows sum and offers another quiz on the same topic,
// starting at the level the player finished on.
func newSummaryScreen(deps *screens.Deps, sum quiz.Summary, level quiz.Difficulty) screen.Screen {
	topic := sum.Topic
	return summary.New(sum, func() screen.Screen {
		return New(deps, topic, level)
	})
}
