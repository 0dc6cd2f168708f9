package quiz

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTotalQuestions is the question target of a new session.
const DefaultTotalQuestions = 10

// Answer is the immutable record of one confirmed answer.
type Answer struct {
	QuestionID       string     `json:"questionId"`
	SelectedOptionID string     `json:"selectedOptionId"`
	IsCorrect        bool       `json:"isCorrect"`
	ElapsedSeconds   int        `json:"elapsedSeconds"`
	Difficulty       Difficulty `json:"difficulty"`
}

// Session is one quiz attempt scoped to a single topic.
type Session struct {
	ID                string     `json:"id"`
	Topic             Topic      `json:"topic"`
	StartedAt         time.Time  `json:"startedAt"`
	EndedAt           *time.Time `json:"endedAt,omitempty"`
	InitialDifficulty Difficulty `json:"initialDifficulty"`
	CurrentDifficulty Difficulty `json:"currentDifficulty"`
	Answers           []Answer   `json:"answers"`
	TotalQuestions    int        `json:"totalQuestions"`
}

// NewSession creates an empty session with a fresh identifier.
// A non-positive total falls back to DefaultTotalQuestions.
func NewSession(topic Topic, difficulty Difficulty, total int, startedAt time.Time) *Session {
	if total <= 0 {
		total = DefaultTotalQuestions
	}
	return &Session{
		ID:                uuid.NewString(),
		Topic:             topic,
		StartedAt:         startedAt,
		InitialDifficulty: difficulty,
		CurrentDifficulty: difficulty,
		Answers:           []Answer{},
		TotalQuestions:    total,
	}
}

// Done reports whether the question target has been reached.
func (s *Session) Done() bool {
	return len(s.Answers) >= s.TotalQuestions
}

// CorrectCount returns the number of correct answers so far.
func (s *Session) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// AskedQuestionIDs returns the ids of every answered question, in order.
func (s *Session) AskedQuestionIDs() []string {
	ids := make([]string, len(s.Answers))
	for i, a := range s.Answers {
		ids[i] = a.QuestionID
	}
	return ids
}

// Clone returns a deep copy safe to hand to readers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = make([]Answer, len(s.Answers))
	copy(c.Answers, s.Answers)
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return &c
}
