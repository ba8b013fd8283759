// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ainstein-ai-api/internal/domain/entity"
)

// TenantRepository 租户仓储接口
type TenantRepository interface {
	// Create 创建租户
	Create(ctx context.Context, tenant *entity.Tenant) error

	// GetByID 根据 ID 获取租户
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)

	// GetBySlug 根据 Slug 获取租户
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)

	// ReserveTokens 单条带条件 UPDATE：used + tokens <= limit 时递增并返回 true
	ReserveTokens(ctx context.Context, id string, tokens int64) (bool, error)

	// AdjustTokens 按差额调整已用量（结果不小于 0）
	AdjustTokens(ctx context.Context, id string, delta int64) error

	// GetQuota 获取配额快照，租户不存在时返回 nil
	GetQuota(ctx context.Context, id string) (*entity.TenantQuota, error)
}
