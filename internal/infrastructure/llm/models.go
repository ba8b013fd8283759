package llm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"ainstein-ai-api/pkg/logger"
)

// FallbackModels 提供商无法列出模型时返回的候选列表
var FallbackModels = []string{"gpt-3.5-turbo", "gpt-4", "gpt-4o"}

// ErrModelListUnsupported 提供商不支持列出模型
var ErrModelListUnsupported = errors.New("llm provider cannot list models")

// ModelLister 可列出可用模型的提供商或生成器
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// AvailableModels 返回生成器可选的模型；不支持、失败或结果为空时退回 FallbackModels，
// 第二个返回值表示结果是否来自提供商
func AvailableModels(ctx context.Context, g Generator) ([]string, bool) {
	ml, ok := g.(ModelLister)
	if !ok {
		return slices.Clone(FallbackModels), false
	}
	models, err := ml.ListModels(ctx)
	if err != nil {
		if !errors.Is(err, ErrModelListUnsupported) {
			logger.Warn(ctx, "failed to list llm models", "generator", g.Name(), "error", err.Error())
		}
		return slices.Clone(FallbackModels), false
	}
	if len(models) == 0 {
		return slices.Clone(FallbackModels), false
	}
	return models, true
}

// CheckAccess 用一次轻量调用确认凭据可用：
// 能列模型的走 ListModels，否则发一次 max_tokens=1 的生成请求
func CheckAccess(ctx context.Context, g Generator) error {
	if ml, ok := g.(ModelLister); ok {
		_, err := ml.ListModels(ctx)
		if err == nil || !errors.Is(err, ErrModelListUnsupported) {
			return err
		}
	}
	res := g.Generate(ctx, "ping", Options{MaxTokens: 1})
	if !res.Success {
		return fmt.Errorf("llm access check failed: %s", res.Error)
	}
	return nil
}

// filterModels 保留包含 family 的模型 ID，去掉 prefix 后排序去重
func filterModels(ids []string, family, prefix string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimPrefix(id, prefix)
		if strings.Contains(id, family) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
