package quota

import (
	"context"
	"fmt"
	"strings"

	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/domain/service"
	"ainstein-ai-api/pkg/logger"
)

// LLMUsageRecorder 追加 LLM 调用流水（best-effort）
type LLMUsageRecorder struct {
	usageRepo repository.LLMUsageEventRepository
}

func NewLLMUsageRecorder(usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{usageRepo: usageRepo}
}

var _ service.LLMUsageRecorder = (*LLMUsageRecorder)(nil)

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}

	tenantID := strings.TrimSpace(in.TenantID)
	if tenantID == "" {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 || in.TotalTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}

	workflow := strings.TrimSpace(in.Workflow)
	if workflow == "" {
		workflow = "unknown"
	}
	evt := &entity.LLMUsageEvent{
		TenantID:         tenantID,
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		Workflow:         workflow,
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		TokensTotal:      in.Total(),
		Cost:             in.Cost,
		DurationMs:       in.DurationMs,
	}
	if id := strings.TrimSpace(in.GenerationID); id != "" {
		evt.GenerationID = &id
	}
	if err := r.usageRepo.Create(ctx, evt); err != nil {
		// 流水写入失败不影响主流程
		logger.Warn(ctx, "failed to record llm usage event", "tenant_id", tenantID, "error", err.Error())
	}
	return nil
}
