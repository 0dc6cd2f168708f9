package questiongen

import (
	"context"

	"github.com/abhisek/quizmind/internal/quiz"
)

// Generator produces multiple-choice quiz questions.
type Generator interface {
	// Generate produces a single question for the given input context.
	// All configured validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (*quiz.Question, error)
}

// GenerateInput holds all context needed to generate a question.
type GenerateInput struct {
	// UserID scopes cross-session memory. Empty for anonymous players.
	UserID string

	Topic      quiz.Topic
	Difficulty quiz.Difficulty

	// PreviousQuestionIDs are the ids of questions already asked in this
	// session. Ids this generator produced are rendered as their texts in
	// the prompt; unknown ids are ignored.
	PreviousQuestionIDs []string

	// PriorTexts are extra question texts to avoid, e.g. from earlier
	// sessions.
	PriorTexts []string
}
