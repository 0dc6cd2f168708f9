// Package difficulty decides the next question difficulty from recent
// answer history.
package difficulty

import "github.com/abhisek/quizmind/internal/quiz"

// Window is the number of trailing answers the adapter looks at.
const Window = 3

// Next returns the difficulty for the next question. Only the last Window
// answers count: all correct steps up one level, at most one correct steps
// down one level, anything in between keeps the current level. Until the
// window is full the current level is returned unchanged.
func Next(answers []quiz.Answer, current quiz.Difficulty) quiz.Difficulty {
	if len(answers) < Window {
		return current
	}

	correct := 0
	for _, a := range answers[len(answers)-Window:] {
		if a.IsCorrect {
			correct++
		}
	}

	switch {
	case correct == Window:
		return current.Up()
	case correct <= 1:
		return current.Down()
	default:
		return current
	}
}
