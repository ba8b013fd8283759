package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
)

// PromptTemplateRepository 提示词模板仓储实现
type PromptTemplateRepository struct {
	client *Client
}

// NewPromptTemplateRepository 创建模板仓储
func NewPromptTemplateRepository(client *Client) *PromptTemplateRepository {
	return &PromptTemplateRepository{client: client}
}

// Create 创建模板
func (r *PromptTemplateRepository) Create(ctx context.Context, tpl *entity.PromptTemplate) error {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.Create")
	defer span.End()

	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(tpl).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create prompt template: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取模板
func (r *PromptTemplateRepository) GetByID(ctx context.Context, id string) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var tpl entity.PromptTemplate
	if err := db.First(&tpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get prompt template: %w", err)
	}
	return &tpl, nil
}

// GetByAlias 根据别名获取模板；tenantID 为空时只查系统模板
func (r *PromptTemplateRepository) GetByAlias(ctx context.Context, tenantID, alias string) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.GetByAlias")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Where("alias = ?", alias)
	if tenantID == "" {
		query = query.Where("tenant_id IS NULL")
	} else {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var tpl entity.PromptTemplate
	if err := query.First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get prompt template by alias: %w", err)
	}
	return &tpl, nil
}

// Update 更新模板
func (r *PromptTemplateRepository) Update(ctx context.Context, tpl *entity.PromptTemplate) error {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(tpl).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update prompt template: %w", err)
	}
	return nil
}

// Delete 删除模板
func (r *PromptTemplateRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.PromptTemplate{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete prompt template: %w", err)
	}
	return nil
}

// List 获取租户可见的模板列表
func (r *PromptTemplateRepository) List(ctx context.Context, tenantID string, filter *repository.PromptTemplateFilter, sort repository.Sort, pagination repository.Pagination) (*repository.PagedResult[*entity.PromptTemplate], error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.PromptTemplate{})

	if filter != nil && filter.IncludeSystem {
		query = query.Where("(tenant_id = ? OR is_system = TRUE)", tenantID)
	} else {
		query = query.Where("tenant_id = ?", tenantID)
	}

	if filter != nil {
		if filter.Category != "" {
			query = query.Where("category = ?", filter.Category)
		}
		if filter.IsActive != nil {
			query = query.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			query = query.Where("(name ILIKE ? OR alias ILIKE ? OR body ILIKE ?)", like, like, like)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count prompt templates: %w", err)
	}

	var templates []*entity.PromptTemplate
	if err := query.Order(sort.Clause("created_at DESC")).
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&templates).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list prompt templates: %w", err)
	}

	return repository.NewPagedResult(templates, total, pagination), nil
}

// ExistsByAlias 检查租户内别名是否已被占用
func (r *PromptTemplateRepository) ExistsByAlias(ctx context.Context, tenantID, alias, excludeID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.PromptTemplateRepository.ExistsByAlias")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.PromptTemplate{}).Where("tenant_id = ? AND alias = ?", tenantID, alias)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check alias exists: %w", err)
	}
	return count > 0, nil
}
