package llm

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// GeminiProvider 基于 google genai SDK 的提供商
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider 创建 Gemini 客户端
func NewGeminiProvider(ctx context.Context, s Settings) (ChatProvider, error) {
	s = s.WithDefaults()
	if s.APIKey == "" {
		return nil, errors.New("gemini api key missing")
	}
	cfg := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Chat 以 SystemInstruction + 单轮 user 文本调用 GenerateContent
func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := p.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), cfg)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, errors.New("gemini: empty candidates")
	}

	resp := &ChatResponse{
		Content:      result.Text(),
		FinishReason: string(result.Candidates[0].FinishReason),
		Model:        req.Model,
	}
	if u := result.UsageMetadata; u != nil {
		resp.PromptTokens = int(u.PromptTokenCount)
		resp.CompletionTokens = int(u.CandidatesTokenCount)
		resp.TotalTokens = int(u.TotalTokenCount)
	}
	return resp, nil
}

// ListModels 列出 gemini 系列模型，去掉 "models/" 前缀
func (p *GeminiProvider) ListModels(ctx context.Context) ([]string, error) {
	page, err := p.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		ids = append(ids, m.Name)
	}
	return filterModels(ids, "gemini", "models/"), nil
}
