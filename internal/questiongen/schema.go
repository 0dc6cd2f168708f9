package questiongen

import "github.com/abhisek/quizmind/internal/llm"

// QuestionSchema defines the JSON schema for LLM question generation responses.
var QuestionSchema = &llm.Schema{
	Name:        "quiz-question",
	Description: "A single multiple-choice quiz question with four options and an explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The question text",
			},
			"options": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "Option text",
						},
						"isCorrect": map[string]any{
							"type":        "boolean",
							"description": "Whether this is the correct answer",
						},
					},
					"required":             []any{"text", "isCorrect"},
					"additionalProperties": false,
				},
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly 4 options, exactly one of them correct",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Educational explanation of why the correct answer is right",
			},
		},
		"required":             []any{"text", "options", "explanation"},
		"additionalProperties": false,
	},
}
