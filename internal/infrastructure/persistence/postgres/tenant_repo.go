// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"ainstein-ai-api/internal/domain/entity"
)

// TenantRepository 租户仓储实现
type TenantRepository struct {
	client *Client
}

// NewTenantRepository 创建租户仓储
func NewTenantRepository(client *Client) *TenantRepository {
	return &TenantRepository{client: client}
}

// Create 创建租户
func (r *TenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.Create")
	defer span.End()

	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(tenant).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取租户
func (r *TenantRepository) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tenant entity.Tenant
	if err := db.First(&tenant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

// GetBySlug 根据 Slug 获取租户
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.GetBySlug")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tenant entity.Tenant
	if err := db.First(&tenant, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get tenant by slug: %w", err)
	}
	return &tenant, nil
}

// ReserveTokens 预占 Token。判断与递增在同一条 UPDATE 中完成，
// 并发请求不会让 tokens_used_current 越过 tokens_monthly_limit。
func (r *TenantRepository) ReserveTokens(ctx context.Context, id string, tokens int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.ReserveTokens")
	defer span.End()
	span.SetAttributes(attribute.Int64("tokens", tokens))

	db := getDB(ctx, r.client.db)
	res := db.Model(&entity.Tenant{}).
		Where("id = ? AND tokens_used_current + ? <= tokens_monthly_limit", id, tokens).
		Update("tokens_used_current", gorm.Expr("tokens_used_current + ?", tokens))
	if res.Error != nil {
		span.RecordError(res.Error)
		return false, fmt.Errorf("failed to reserve tokens: %w", res.Error)
	}

	granted := res.RowsAffected == 1
	span.SetAttributes(attribute.Bool("granted", granted))
	return granted, nil
}

// AdjustTokens 按差额调整已用量，结果不小于 0
func (r *TenantRepository) AdjustTokens(ctx context.Context, id string, delta int64) error {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.AdjustTokens")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Tenant{}).
		Where("id = ?", id).
		Update("tokens_used_current", gorm.Expr("GREATEST(tokens_used_current + ?, 0)", delta)).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to adjust tokens: %w", err)
	}
	return nil
}

// GetQuota 获取配额快照
func (r *TenantRepository) GetQuota(ctx context.Context, id string) (*entity.TenantQuota, error) {
	ctx, span := tracer.Start(ctx, "postgres.TenantRepository.GetQuota")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tenant entity.Tenant
	if err := db.Select("id", "tokens_used_current", "tokens_monthly_limit").
		First(&tenant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get tenant quota: %w", err)
	}
	q := tenant.Quota()
	return &q, nil
}
