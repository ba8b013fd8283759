package postgres

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"ainstein-ai-api/internal/domain/entity"
)

// LLMUsageEventRepository 模型调用流水（llm_usage_events）
type LLMUsageEventRepository struct {
	client *Client
}

func NewLLMUsageEventRepository(client *Client) *LLMUsageEventRepository {
	return &LLMUsageEventRepository{client: client}
}

// Create 追加一条流水；GenerationID 为空表示未关联生成记录
func (r *LLMUsageEventRepository) Create(ctx context.Context, event *entity.LLMUsageEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", event.TenantID),
		attribute.String("llm.provider", event.Provider),
		attribute.Int("llm.tokens_total", event.TokensTotal),
	)

	db := getDB(ctx, r.client.db)
	if err := db.Create(event).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append llm usage event: %w", err)
	}
	return nil
}
