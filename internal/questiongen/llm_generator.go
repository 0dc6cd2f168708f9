package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/quizmind/internal/llm"
	"github.com/abhisek/quizmind/internal/quiz"
)

// rememberedTexts bounds the id -> text index. Sessions only look back
// MaxPriorQuestions questions, so older entries are dropped first.
const rememberedTexts = 256

// optionIDs are assigned to options after shuffling.
var optionIDs = [quiz.OptionCount]string{"a", "b", "c", "d"}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	shuffle  func(n int, swap func(i, j int))

	mu    sync.Mutex
	texts map[string]string // question id -> text
	order []string          // ids in texts, oldest first
	keep  int
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{
		provider: provider,
		config:   cfg,
		shuffle:  rand.Shuffle,
		texts:    make(map[string]string),
		keep:     rememberedTexts,
	}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	Text    string `json:"text"`
	Options []struct {
		Text      string `json:"text"`
		IsCorrect bool   `json:"isCorrect"`
	} `json:"options"`
	Explanation string `json:"explanation"`
}

// Generate produces a single question for the given input context.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*quiz.Question, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	prior := mergePrior(input.PriorTexts, g.lookupTexts(input.PreviousQuestionIDs))

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, prior, g.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	q := &quiz.Question{
		ID:          uuid.NewString(),
		Text:        raw.Text,
		Explanation: raw.Explanation,
		Difficulty:  input.Difficulty,
		Topic:       input.Topic,
	}
	for _, o := range raw.Options {
		q.Options = append(q.Options, quiz.Option{Text: o.Text, IsCorrect: o.IsCorrect})
	}

	// The model tends to put the correct answer first.
	g.shuffle(len(q.Options), func(i, j int) {
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	})
	for i := range q.Options {
		if i < len(optionIDs) {
			q.Options[i].ID = optionIDs[i]
		}
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return nil, verr
		}
	}

	g.remember(q.ID, q.Text)
	return q, nil
}

func (g *LLMGenerator) remember(id, text string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.texts[id] = text
	g.order = append(g.order, id)
	for len(g.order) > g.keep {
		delete(g.texts, g.order[0])
		g.order = g.order[1:]
	}
}

// lookupTexts maps question ids produced by this generator to their texts,
// preserving order.
func (g *LLMGenerator) lookupTexts(ids []string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if text, ok := g.texts[id]; ok {
			out = append(out, text)
		}
	}
	return out
}
