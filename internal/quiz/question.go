package quiz

import "fmt"

// OptionCount is the number of options every question carries.
const OptionCount = 4

// Option is one of the answer choices of a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a generated multiple-choice question ready for display.
type Question struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Options     []Option   `json:"options"`
	Explanation string     `json:"explanation"`
	Difficulty  Difficulty `json:"difficulty"`
	Topic       Topic      `json:"topic"`
}

// Option returns the option with the given id.
func (q *Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectOption returns the option flagged as correct.
func (q *Question) CorrectOption() (Option, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return Option{}, false
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid question: %s: %s", e.Field, e.Message)
}

// ValidateQuestion checks the shape invariants of a question: non-empty
// text, exactly four options with unique non-empty ids and texts, and
// exactly one correct option. Malformed questions are rejected, never
// repaired.
func ValidateQuestion(q *Question) error {
	if q == nil {
		return &ValidationError{Field: "question", Message: "missing"}
	}
	if q.Text == "" {
		return &ValidationError{Field: "text", Message: "empty"}
	}
	if len(q.Options) != OptionCount {
		return &ValidationError{
			Field:   "options",
			Message: fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)),
		}
	}

	seen := make(map[string]bool, len(q.Options))
	correct := 0
	for i, o := range q.Options {
		if o.ID == "" {
			return &ValidationError{Field: fmt.Sprintf("options[%d].id", i), Message: "empty"}
		}
		if o.Text == "" {
			return &ValidationError{Field: fmt.Sprintf("options[%d].text", i), Message: "empty"}
		}
		if seen[o.ID] {
			return &ValidationError{Field: fmt.Sprintf("options[%d].id", i), Message: fmt.Sprintf("duplicate id %q", o.ID)}
		}
		seen[o.ID] = true
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return &ValidationError{
			Field:   "options",
			Message: fmt.Sprintf("expected exactly 1 correct option, got %d", correct),
		}
	}
	return nil
}
