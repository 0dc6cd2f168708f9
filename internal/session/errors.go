package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizmind/internal/llm"
	"github.com/abhisek/quizmind/internal/questiongen"
	"github.com/abhisek/quizmind/internal/quiz"
)

// ErrStale is returned when a question arrived for a request that was
// superseded by Reset. The response is discarded.
var ErrStale = errors.New("stale question response discarded")

// ProviderError wraps a failure to obtain a valid question.
type ProviderError struct {
	// Op is the operation that requested the question: start, next or retry.
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: fetch question: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UserMessage maps err to a short message suitable for the error screen.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		rateLimit   *llm.ErrRateLimit
		quota       *llm.ErrQuotaExceeded
		unavailable *llm.ErrProviderUnavailable
		invalid     *llm.ErrInvalidResponse
		maxTokens   *llm.ErrMaxTokensExceeded
		quizInvalid *quiz.ValidationError
		genInvalid  *questiongen.ValidationError
	)

	switch {
	case errors.Is(err, ErrStale):
		return ""
	case errors.As(err, &rateLimit):
		return "Too many requests. Wait a moment and try again."
	case errors.As(err, &quota):
		return "The question service is out of credits. Check your provider account."
	case errors.Is(err, context.DeadlineExceeded):
		return "The question took too long to arrive. Try again."
	case errors.Is(err, context.Canceled):
		return "The request was cancelled."
	case errors.As(err, &unavailable):
		return "The question service is unavailable right now. Try again."
	case errors.As(err, &invalid), errors.As(err, &maxTokens),
		errors.As(err, &quizInvalid), errors.As(err, &genInvalid):
		return "The generated question was malformed. Try again."
	default:
		return "Could not load a question. Try again."
	}
}
