package llm

import (
	"context"

	"ainstein-ai-api/pkg/logger"
)

// NewGenerator 在构造时一次性选择策略：
// 缺少密钥返回配置错误；占位密钥使用 MockGenerator；其他情况通过工厂构造真实提供商并包装为 Client。
func NewGenerator(ctx context.Context, s Settings, factory *ProviderFactory) (Generator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s = s.WithDefaults()

	if IsPlaceholderKey(s.APIKey) {
		logger.Info(ctx, "using mock generator for demo/testing purposes", "model", s.Model)
		return NewMockGenerator(s.Model), nil
	}

	if factory == nil {
		factory = NewProviderFactory()
	}
	provider, err := factory.New(ctx, s)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "llm generator initialized", "provider", provider.Name(), "model", s.Model)
	return NewClient(provider, s), nil
}
