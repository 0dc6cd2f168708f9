package questiongen

import (
	"context"
	"log/slog"
	"slices"

	"github.com/abhisek/quizmind/internal/quiz"
	"github.com/abhisek/quizmind/internal/recall"
)

// RecallGenerator feeds a user's recently seen questions from earlier
// sessions into the prompt and remembers every question it hands out.
// Recall failures are logged and never fail generation.
type RecallGenerator struct {
	inner  Generator
	store  recall.Store
	logger *slog.Logger
}

// WithRecall wraps g with cross-session memory. Anonymous input (empty
// UserID) passes straight through.
func WithRecall(g Generator, store recall.Store, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecallGenerator{inner: g, store: store, logger: logger}
}

func (r *RecallGenerator) Generate(ctx context.Context, input GenerateInput) (*quiz.Question, error) {
	if input.UserID == "" {
		return r.inner.Generate(ctx, input)
	}

	recent, err := r.store.Recent(ctx, input.UserID, string(input.Topic))
	if err != nil {
		r.logger.WarnContext(ctx, "questiongen: load recent questions failed", "error", err)
	}
	if len(recent) > 0 {
		// Stored newest first; the prompt lists oldest first.
		slices.Reverse(recent)
		input.PriorTexts = append(recent, input.PriorTexts...)
	}

	q, err := r.inner.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := r.store.Remember(context.WithoutCancel(ctx), input.UserID, string(input.Topic), q.Text); err != nil {
		r.logger.WarnContext(ctx, "questiongen: remember question failed", "error", err)
	}
	return q, nil
}
