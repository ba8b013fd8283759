package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoProvider 基于 Eino OpenAI 适配器的提供商（默认）。
// Eino 不提供模型列表，列模型经同一 BaseURL 与密钥的 openai-go 客户端完成。
type EinoProvider struct {
	chatModel model.BaseChatModel
	models    ModelLister
}

// NewEinoProvider 创建 Eino ChatModel
func NewEinoProvider(ctx context.Context, s Settings) (ChatProvider, error) {
	s = s.WithDefaults()
	maxTokens := s.MaxTokens
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      s.APIKey,
		BaseURL:     s.BaseURL,
		Model:       s.Model,
		MaxTokens:   &maxTokens,
		Temperature: ptrFloat32(float32(s.Temperature)),
		Timeout:     s.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	p := &EinoProvider{chatModel: chatModel}
	if lister, err := NewOpenAIProvider(ctx, s); err == nil {
		p.models = lister.(ModelLister)
	}
	return p, nil
}

// NewEinoProviderWithModel 使用已构造的 ChatModel（测试或自定义适配器）
func NewEinoProviderWithModel(m model.BaseChatModel) *EinoProvider {
	return &EinoProvider{chatModel: m}
}

func (p *EinoProvider) Name() string { return "eino" }

// ListModels 未配置列模型客户端时返回 ErrModelListUnsupported
func (p *EinoProvider) ListModels(ctx context.Context) ([]string, error) {
	if p.models == nil {
		return nil, ErrModelListUnsupported
	}
	return p.models.ListModels(ctx)
}

// Chat 发送 system + user 两条消息
func (p *EinoProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(req.System),
		schema.UserMessage(req.User),
	}
	opts := []model.Option{
		model.WithTemperature(float32(req.Temperature)),
	}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	// 直接调用组件时需显式初始化回调管理器，全局 callbacks 才会生效
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      "content-generator",
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})
	out, err := p.chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("eino: empty response")
	}

	resp := &ChatResponse{Content: out.Content, Model: req.Model}
	if out.ResponseMeta != nil {
		resp.FinishReason = out.ResponseMeta.FinishReason
		if u := out.ResponseMeta.Usage; u != nil {
			resp.PromptTokens = u.PromptTokens
			resp.CompletionTokens = u.CompletionTokens
			resp.TotalTokens = u.TotalTokens
		}
	}
	return resp, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
