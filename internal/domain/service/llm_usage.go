// Package service 定义跨层的领域服务契约
package service

import "context"

// LLMUsageInput 一次 LLM 调用的用量与成本数据
type LLMUsageInput struct {
	TenantID     string
	GenerationID string

	Workflow string
	Provider string
	Model    string

	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cost             float64
	DurationMs       int
}

// Total 返回总 Token；提供商未给出总数时以 prompt + completion 兜底
func (in LLMUsageInput) Total() int {
	if in.TotalTokens > 0 {
		return in.TotalTokens
	}
	return in.PromptTokens + in.CompletionTokens
}

// LLMUsageRecorder 记录 LLM 用量流水。
// 实现应为 best-effort，不阻塞主业务流程；配额扣减由 quota.Accountant 负责。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
