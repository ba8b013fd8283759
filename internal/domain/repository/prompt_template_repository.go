// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ainstein-ai-api/internal/domain/entity"
)

// PromptTemplateFilter 模板过滤条件
type PromptTemplateFilter struct {
	IncludeSystem bool
	Category      entity.PromptCategory
	IsActive      *bool
	Search        string
}

// PromptTemplateRepository 提示词模板仓储接口
type PromptTemplateRepository interface {
	// Create 创建模板
	Create(ctx context.Context, tpl *entity.PromptTemplate) error

	// GetByID 根据 ID 获取模板
	GetByID(ctx context.Context, id string) (*entity.PromptTemplate, error)

	// GetByAlias 根据别名获取模板（tenantID 为空时查系统模板）
	GetByAlias(ctx context.Context, tenantID, alias string) (*entity.PromptTemplate, error)

	// Update 更新模板
	Update(ctx context.Context, tpl *entity.PromptTemplate) error

	// Delete 删除模板
	Delete(ctx context.Context, id string) error

	// List 获取租户可见的模板列表
	List(ctx context.Context, tenantID string, filter *PromptTemplateFilter, sort Sort, pagination Pagination) (*PagedResult[*entity.PromptTemplate], error)

	// ExistsByAlias 检查租户内别名是否已被占用（excludeID 用于更新时排除自身）
	ExistsByAlias(ctx context.Context, tenantID, alias, excludeID string) (bool, error)
}
