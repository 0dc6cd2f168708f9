package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionJSON = `{"text":"Which planet is closest to the sun?","options":["Mercury","Venus","Earth","Mars"],"correctIndex":0,"explanation":"Mercury orbits nearest."}`

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return p
}

func anthropicMessage(text, stopReason string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stopReason,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var gotBody map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(questionJSON, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You write quiz questions.",
		Messages:  []Message{{Role: RoleUser, Content: "One question about space."}},
		MaxTokens: 512,
	})

	require.NoError(t, err)
	assert.JSONEq(t, questionJSON, string(resp.Content))
	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", gotBody["model"])
}

func TestAnthropicProvider_StatusErrors(t *testing.T) {
	tests := map[string]struct {
		status int
		check  func(t *testing.T, err error)
	}{
		"rate limit": {http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			assert.True(t, errors.As(err, &rl), "got %T", err)
		}},
		"quota": {http.StatusPaymentRequired, func(t *testing.T, err error) {
			var q *ErrQuotaExceeded
			assert.True(t, errors.As(err, &q), "got %T", err)
		}},
		"server error": {http.StatusInternalServerError, func(t *testing.T, err error) {
			var u *ErrProviderUnavailable
			assert.True(t, errors.As(err, &u), "got %T", err)
		}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"nope"}}`))
			})

			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "hi"}},
				MaxTokens: 16,
			})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestAnthropicProvider_SchemaMismatch(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"count":1}`, "end_turn"))
	})

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "hi"}},
		Schema:    testSchema("anthropic-mismatch"),
		MaxTokens: 64,
	})

	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %T", err)
}

func TestAnthropicProvider_TruncatedStructuredOutput(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"name":"q`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "hi"}},
		Schema:    testSchema("anthropic-truncated"),
		MaxTokens: 8,
	})

	var mt *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &mt), "got %T", err)
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := map[string]string{
		"claude-sonnet":             "claude-sonnet-4-5-20250929",
		"claude-haiku":              "claude-haiku-4-5-20251001",
		"claude-opus-4-5":           "claude-opus-4-5",
		"claude-3-5-haiku-20241022": "claude-3-5-haiku-20241022",
	}
	for friendly, want := range tests {
		p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: friendly})
		require.NoError(t, err)
		assert.Equal(t, want, p.ModelID(), friendly)
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.Error(t, err)
}

func TestMapAnthropicStopReason(t *testing.T) {
	assert.Equal(t, "max_tokens", mapAnthropicStopReason(anthropic.StopReasonMaxTokens))
	assert.Equal(t, "end", mapAnthropicStopReason(anthropic.StopReasonEndTurn))
}
