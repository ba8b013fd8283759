package generation

import (
	"context"
	"strings"

	"ainstein-ai-api/internal/infrastructure/llm"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

// ModelCatalog 管理端可选模型
type ModelCatalog struct {
	Generator string
	Models    []string
	// Fallback 为 true 表示提供商未返回列表，使用的是内置候选
	Fallback bool
}

// KeyCheck 密钥校验结果
type KeyCheck struct {
	Valid     bool
	Generator string
	Error     string
}

// AvailableModels 列出当前生成器可用的模型
func (s *Service) AvailableModels(ctx context.Context) (*ModelCatalog, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.AvailableModels")
	defer span.End()

	a := s.current.Load()
	if a == nil {
		return nil, errors.ErrConfiguration
	}
	models, live := llm.AvailableModels(ctx, a.gen)
	return &ModelCatalog{Generator: a.gen.Name(), Models: models, Fallback: !live}, nil
}

// ValidateKey 用候选密钥（及可选的提供商）构造临时生成器并发起一次轻量调用；
// 不影响当前生效的生成器。占位密钥会得到 mock 生成器并视为有效。
func (s *Service) ValidateKey(ctx context.Context, provider, apiKey string) (*KeyCheck, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.ValidateKey")
	defer span.End()

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.ErrInvalidParam.WithDetail("api_key is required")
	}

	var candidate llm.Settings
	if a := s.current.Load(); a != nil {
		candidate = a.settings
	}
	candidate.APIKey = apiKey
	if p := strings.TrimSpace(provider); p != "" {
		candidate.Provider = p
	}

	gen, err := s.build(ctx, candidate)
	if err != nil {
		return &KeyCheck{Valid: false, Error: err.Error()}, nil
	}
	check := &KeyCheck{Valid: true, Generator: gen.Name()}
	if err := llm.CheckAccess(ctx, gen); err != nil {
		logger.Info(ctx, "llm api key rejected", "generator", gen.Name(), "error", err.Error())
		check.Valid = false
		check.Error = err.Error()
	}
	return check, nil
}
