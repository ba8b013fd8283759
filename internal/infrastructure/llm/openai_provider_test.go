package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProviderAgainstFakeServer(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-live", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  Generated text  "},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":30,"total_tokens":42}
		}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(context.Background(), Settings{APIKey: "sk-live", BaseURL: srv.URL})
	require.NoError(t, err)

	c := NewClient(p, Settings{APIKey: "sk-live", Model: "gpt-4o-mini", MaxTokens: 256, Temperature: 0.7})
	res := c.Generate(context.Background(), "Write about cats", Options{AdditionalInstructions: "short"})

	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Generated text", res.Text())
	assert.Equal(t, 42, res.TokensUsed)
	assert.Equal(t, "openai", res.Provider)
	assert.InDelta(t, 42*DefaultCostPerToken, res.Cost, 1e-12)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 256, got["max_tokens"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	user := msgs[1].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "Write about cats\n\nAdditional instructions: short", user["content"])
}

func TestOpenAIProviderServerErrorBecomesFailedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(context.Background(), Settings{APIKey: "sk-live", BaseURL: srv.URL})
	require.NoError(t, err)

	res := NewClient(p, Settings{APIKey: "sk-live"}).Generate(context.Background(), "p", Options{})
	assert.False(t, res.Success)
	assert.Nil(t, res.Content)
	assert.Zero(t, res.TokensUsed)
	assert.Zero(t, res.Cost)
	assert.NotEmpty(t, res.Error)
}
