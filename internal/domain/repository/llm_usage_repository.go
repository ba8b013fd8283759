package repository

import (
	"context"

	"ainstein-ai-api/internal/domain/entity"
)

// LLMUsageEventRepository 模型调用流水，只追加不修改。
// 配额统计以 generation_records 为准，流水仅用于成本核对。
type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
}
