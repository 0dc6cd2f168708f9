package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizmind/internal/quiz"
)

const (
	maxQuestionLen    = 500
	maxOptionLen      = 200
	maxExplanationLen = 1000
)

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *quiz.Question, _ GenerateInput) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	if strings.TrimSpace(q.Text) == "" {
		return fail("text is empty")
	}
	if len(q.Text) > maxQuestionLen {
		return fail(fmt.Sprintf("text exceeds %d characters", maxQuestionLen))
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return fail("explanation is empty")
	}
	if len(q.Explanation) > maxExplanationLen {
		return fail(fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen))
	}
	for i, o := range q.Options {
		if len(o.Text) > maxOptionLen {
			return fail(fmt.Sprintf("option %d exceeds %d characters", i+1, maxOptionLen))
		}
	}
	return nil
}
