package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizmind/internal/quiz"
)

// ChoicesValidator enforces the option invariants: four options, one
// correct, and no two options reading the same.
type ChoicesValidator struct{}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(q *quiz.Question, _ GenerateInput) *ValidationError {
	if err := quiz.ValidateQuestion(q); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}

	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		key := strings.ToLower(strings.TrimSpace(o.Text))
		if seen[key] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("duplicate option text %q", o.Text)}
		}
		seen[key] = true
	}
	return nil
}
