package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingProvider struct {
	fakeProvider
	models []string
	err    error
}

func (l *listingProvider) ListModels(context.Context) ([]string, error) {
	return l.models, l.err
}

func TestAvailableModelsMockUsesFallback(t *testing.T) {
	models, live := AvailableModels(context.Background(), NewMockGenerator(""))
	assert.False(t, live)
	assert.Equal(t, FallbackModels, models)

	models[0] = "mutated"
	assert.Equal(t, "gpt-3.5-turbo", FallbackModels[0])
}

func TestAvailableModelsFromProvider(t *testing.T) {
	c := NewClient(&listingProvider{models: []string{"gpt-4o", "gpt-4o-mini"}}, testSettings())
	models, live := AvailableModels(context.Background(), c)
	assert.True(t, live)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, models)
}

func TestAvailableModelsFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		provider ChatProvider
	}{
		{"unsupported", &fakeProvider{}},
		{"error", &listingProvider{err: errors.New("401 unauthorized")}},
		{"empty", &listingProvider{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models, live := AvailableModels(context.Background(), NewClient(tt.provider, testSettings()))
			assert.False(t, live)
			assert.Equal(t, FallbackModels, models)
		})
	}
}

func TestCheckAccess(t *testing.T) {
	assert.NoError(t, CheckAccess(context.Background(), NewMockGenerator("")))

	bad := NewClient(&listingProvider{err: errors.New("401 invalid api key")}, testSettings())
	assert.ErrorContains(t, CheckAccess(context.Background(), bad), "401")

	// 不能列模型时退回一次最小生成请求
	p := &fakeProvider{resp: &ChatResponse{Content: "pong", TotalTokens: 2}}
	require.NoError(t, CheckAccess(context.Background(), NewClient(p, testSettings())))
	assert.Equal(t, 1, p.last.MaxTokens)

	p = &fakeProvider{err: errors.New("403 forbidden")}
	assert.ErrorContains(t, CheckAccess(context.Background(), NewClient(p, testSettings())), "403")
}

func TestFilterModels(t *testing.T) {
	got := filterModels([]string{"gpt-4o", "dall-e-3", "gpt-3.5-turbo", "gpt-4o", "whisper-1"}, "gpt", "")
	assert.Equal(t, []string{"gpt-3.5-turbo", "gpt-4o"}, got)

	got = filterModels([]string{"models/gemini-1.5-pro", "models/embedding-001"}, "gemini", "models/")
	assert.Equal(t, []string{"gemini-1.5-pro"}, got)
}

func TestOpenAIProviderListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[
			{"id":"gpt-4o","object":"model","created":1,"owned_by":"openai"},
			{"id":"text-embedding-3-small","object":"model","created":1,"owned_by":"openai"},
			{"id":"gpt-3.5-turbo","object":"model","created":1,"owned_by":"openai"}
		]}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(context.Background(), Settings{APIKey: "sk-live", BaseURL: srv.URL})
	require.NoError(t, err)
	models, err := p.(ModelLister).ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-3.5-turbo", "gpt-4o"}, models)
}
