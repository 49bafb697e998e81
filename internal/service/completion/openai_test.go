package completion

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogsmith/internal/domain"
	"blogsmith/internal/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type chatBody struct {
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newFakeOpenAI(t *testing.T, status int, reply string, seen *chatBody) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient("sk-test", srv.URL+"/v1", discardLogger())
	require.NoError(t, err)
	return c
}

func TestOpenAICompleteJSONMode(t *testing.T) {
	var seen chatBody
	c := newFakeOpenAI(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-2024-08-06",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"title\":\"T\"}"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 42, "completion_tokens": 7, "total_tokens": 49}
	}`, &seen)

	res, err := c.Complete(context.Background(), &services.CompletionRequest{
		Kind:        services.CompletionKindOutline,
		Model:       "gpt-4o",
		System:      "sys",
		User:        "usr",
		MaxTokens:   512,
		Temperature: 0.3,
		JSON:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"title":"T"}`, res.Text)
	assert.Equal(t, 42, res.InputTokens)
	assert.Equal(t, 7, res.OutputTokens)

	assert.Equal(t, "gpt-4o", seen.Model)
	assert.Equal(t, 512, seen.MaxTokens)
	assert.InDelta(t, 0.3, seen.Temperature, 1e-6)
	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, "json_object", seen.ResponseFormat.Type)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "usr", seen.Messages[1].Content)
}

func TestOpenAICompleteFreeForm(t *testing.T) {
	var seen chatBody
	c := newFakeOpenAI(t, http.StatusOK, `{"choices": [{"message": {"role": "assistant", "content": "# Article"}}]}`, &seen)

	res, err := c.Complete(context.Background(), &services.CompletionRequest{Model: "gpt-4o", System: "s", User: "u", MaxTokens: 2048, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "# Article", res.Text)
	assert.Nil(t, seen.ResponseFormat)
}

func TestOpenAICompleteUpstreamError(t *testing.T) {
	c := newFakeOpenAI(t, http.StatusUnauthorized, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`, nil)

	_, err := c.Complete(context.Background(), &services.CompletionRequest{Model: "gpt-4o", System: "s", User: "u"})
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "openai", upstream.Provider)
	assert.Equal(t, "Incorrect API key provided", upstream.Message)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestTemperatureKeepsZero(t *testing.T) {
	assert.Greater(t, temperature(0), float32(0))
	assert.Equal(t, float32(0.5), temperature(0.5))
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", discardLogger())
	assert.Error(t, err)
}
