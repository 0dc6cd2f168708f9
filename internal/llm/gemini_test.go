package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := map[string]string{
		"gemini-flash":     "gemini-2.5-flash",
		"gemini-lite":      "gemini-2.5-flash-lite",
		"gemini-pro":       "gemini-2.5-pro",
		"gemini-2.0-flash": "gemini-2.0-flash",
	}
	for input, want := range tests {
		assert.Equal(t, want, resolveModel(input, geminiModels), input)
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text":       map[string]any{"type": "string", "description": "Question stem"},
			"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": float64(4),
			},
			"correctIndex": map[string]any{"type": "integer"},
			"confident":    map[string]any{"type": "boolean"},
		},
		"required": []string{"text", "options", "correctIndex"},
	}

	schema := buildGeminiSchema(def)

	assert.Equal(t, genai.TypeObject, schema.Type)
	require.Len(t, schema.Properties, 5)
	assert.Equal(t, genai.TypeString, schema.Properties["text"].Type)
	assert.Equal(t, "Question stem", schema.Properties["text"].Description)
	assert.Equal(t, []string{"easy", "medium", "hard"}, schema.Properties["difficulty"].Enum)
	assert.Equal(t, genai.TypeInteger, schema.Properties["correctIndex"].Type)
	assert.Equal(t, genai.TypeBoolean, schema.Properties["confident"].Type)

	opts := schema.Properties["options"]
	assert.Equal(t, genai.TypeArray, opts.Type)
	assert.Equal(t, genai.TypeString, opts.Items.Type)
	require.NotNil(t, opts.MinItems)
	require.NotNil(t, opts.MaxItems)
	assert.EqualValues(t, 4, *opts.MinItems)
	assert.EqualValues(t, 4, *opts.MaxItems)

	assert.Equal(t, []string{"text", "options", "correctIndex"}, schema.Required)
}

func TestBuildGeminiContents(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	})

	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "a", contents[1].Parts[0].Text)
}

func TestMapGeminiError(t *testing.T) {
	var q *ErrQuotaExceeded
	assert.ErrorAs(t, mapGeminiError(genai.APIError{Code: 402, Message: "billing"}), &q)

	var rl *ErrRateLimit
	assert.ErrorAs(t, mapGeminiError(genai.APIError{Code: 429, Message: "slow"}), &rl)
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(t.Context(), GeminiConfig{Model: "gemini-flash"})
	assert.Error(t, err)
}
