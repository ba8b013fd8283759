// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"ainstein-ai-api/internal/domain/entity"
)

// GenerationFilter 生成记录过滤条件
type GenerationFilter struct {
	Status     entity.GenerationStatus
	TemplateID string
}

// GenerationRepository 生成记录仓储接口
type GenerationRepository interface {
	// Create 创建记录（应为 pending 状态）
	Create(ctx context.Context, record *entity.GenerationRecord) error

	// GetByID 根据 ID 获取记录
	GetByID(ctx context.Context, id string) (*entity.GenerationRecord, error)

	// ListByTenant 获取租户记录列表
	ListByTenant(ctx context.Context, tenantID string, filter *GenerationFilter, pagination Pagination) (*PagedResult[*entity.GenerationRecord], error)

	// MarkStarted 记录开始执行时间，并保存预占的 Token 数
	MarkStarted(ctx context.Context, id string, startedAt time.Time, tokensReserved int) error

	// MarkCompleted 将 pending 记录置为 completed；记录已终态时返回 false
	MarkCompleted(ctx context.Context, record *entity.GenerationRecord) (bool, error)

	// MarkFailed 将 pending 记录置为 failed；记录已终态时返回 false
	MarkFailed(ctx context.Context, record *entity.GenerationRecord) (bool, error)

	// GetTokenUsage 获取租户在指定时间范围内已完成生成的 Token 用量
	GetTokenUsage(ctx context.Context, tenantID string, startInclusive, endExclusive time.Time) (int64, error)
}
