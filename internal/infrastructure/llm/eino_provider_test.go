package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	input []*schema.Message
	opts  *model.Options
	out   *schema.Message
	err   error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	f.opts = model.GetCommonOptions(&model.Options{}, opts...)
	return f.out, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not used")
}

func TestEinoProviderChat(t *testing.T) {
	fm := &fakeChatModel{out: &schema.Message{
		Role:    schema.Assistant,
		Content: "Meta title here",
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: "stop",
			Usage:        &schema.TokenUsage{PromptTokens: 20, CompletionTokens: 8, TotalTokens: 28},
		},
	}}
	p := NewEinoProviderWithModel(fm)

	resp, err := p.Chat(context.Background(), ChatRequest{
		Model:       "gpt-4o",
		System:      "You are an SEO writer.",
		User:        "Write a title",
		MaxTokens:   64,
		Temperature: 0,
	})
	require.NoError(t, err)

	require.Len(t, fm.input, 2)
	assert.Equal(t, schema.System, fm.input[0].Role)
	assert.Equal(t, "You are an SEO writer.", fm.input[0].Content)
	assert.Equal(t, schema.User, fm.input[1].Role)
	assert.Equal(t, "Write a title", fm.input[1].Content)

	require.NotNil(t, fm.opts.Model)
	assert.Equal(t, "gpt-4o", *fm.opts.Model)
	require.NotNil(t, fm.opts.MaxTokens)
	assert.Equal(t, 64, *fm.opts.MaxTokens)
	require.NotNil(t, fm.opts.Temperature)
	assert.Zero(t, *fm.opts.Temperature)

	assert.Equal(t, &ChatResponse{
		Content:          "Meta title here",
		FinishReason:     "stop",
		Model:            "gpt-4o",
		PromptTokens:     20,
		CompletionTokens: 8,
		TotalTokens:      28,
	}, resp)
}

func TestEinoProviderWithoutUsage(t *testing.T) {
	p := NewEinoProviderWithModel(&fakeChatModel{out: &schema.Message{Content: "x"}})
	resp, err := p.Chat(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Zero(t, resp.TotalTokens)

	_, err = NewEinoProviderWithModel(&fakeChatModel{}).Chat(context.Background(), ChatRequest{})
	assert.ErrorContains(t, err, "empty response")

	_, err = NewEinoProviderWithModel(&fakeChatModel{err: errors.New("rate limited")}).Chat(context.Background(), ChatRequest{})
	assert.ErrorContains(t, err, "rate limited")

	_, err = NewEinoProviderWithModel(&fakeChatModel{}).ListModels(context.Background())
	assert.ErrorIs(t, err, ErrModelListUnsupported)
}

func TestEinoProviderAgainstFakeServer(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/models") {
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o-mini","object":"model","created":1,"owned_by":"openai"}]}`))
			return
		}
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{
			"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"Eino says hi"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":9,"completion_tokens":3,"total_tokens":12}
		}`))
	}))
	defer srv.Close()

	s := Settings{APIKey: "sk-live", BaseURL: srv.URL, Model: "gpt-4o-mini", MaxTokens: 128, Temperature: 0.2}
	p, err := NewEinoProvider(context.Background(), s)
	require.NoError(t, err)

	res := NewClient(p, s).Generate(context.Background(), "Write about dogs", Options{})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Eino says hi", res.Text())
	assert.Equal(t, "eino", res.Provider)
	assert.Equal(t, 12, res.TokensUsed)
	assert.Equal(t, 9, res.PromptTokens)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 128, got["max_tokens"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "Write about dogs", msgs[1].(map[string]any)["content"])

	models, err := p.(ModelLister).ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4o-mini"}, models)
}

func TestGeminiProviderAgainstFakeServer(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-1.5-flash"},{"name":"models/text-embedding-004"}]}`))
			return
		}
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-1.5-flash:generateContent"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{
			"candidates":[{"content":{"role":"model","parts":[{"text":"Gemini copy"}]},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":6,"candidatesTokenCount":4,"totalTokenCount":10}
		}`))
	}))
	defer srv.Close()

	s := Settings{Provider: "gemini", APIKey: "g-live", BaseURL: srv.URL, Model: "gemini-1.5-flash", MaxTokens: 50}
	p, err := NewGeminiProvider(context.Background(), s)
	require.NoError(t, err)

	resp, err := p.Chat(context.Background(), ChatRequest{Model: "gemini-1.5-flash", System: "sys", User: "Write", MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "Gemini copy", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, 10, resp.TotalTokens)
	assert.Equal(t, 4, resp.CompletionTokens)
	assert.Contains(t, got, "systemInstruction")

	models, err := p.(ModelLister).ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini-1.5-flash"}, models)
}
