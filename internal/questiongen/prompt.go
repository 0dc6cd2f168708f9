package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizmind/internal/quiz"
)

const systemPrompt = `You write educational multiple-choice quiz questions in English.

Rules:
- Generate exactly ONE question on the given topic at the given difficulty.
- Questions must be interesting, educational and factually accurate.
- Provide exactly 4 options where exactly one is correct. Distractors should be plausible, not silly.
- Keep option texts short and distinct from each other.
- The explanation must teach: say why the correct option is right, briefly.
- Do not repeat or paraphrase any question from the "already asked" list.`

var difficultyDescriptions = map[quiz.Difficulty]string{
	quiz.Easy:   "easy (basic concepts, direct questions, clearly distinct options)",
	quiz.Medium: "medium (requires some knowledge, options may look similar)",
	quiz.Hard:   "hard (in-depth knowledge, specific details, very similar options)",
}

// buildUserMessage constructs the user message for one question request.
// prior holds question texts to avoid, oldest first.
func buildUserMessage(input GenerateInput, prior []string, cfg Config) string {
	scope := string(input.Topic)
	if info, ok := quiz.LookupTopic(input.Topic); ok {
		scope = info.Scope
	}
	level, ok := difficultyDescriptions[input.Difficulty]
	if !ok {
		level = string(input.Difficulty)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", scope)
	fmt.Fprintf(&b, "Difficulty: %s\n", level)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorQuestions))

	return b.String()
}
