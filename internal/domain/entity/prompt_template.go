// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// PromptCategory 模板分类
type PromptCategory string

const (
	PromptCategoryBlog      PromptCategory = "blog"
	PromptCategorySEO       PromptCategory = "seo"
	PromptCategoryEcommerce PromptCategory = "ecommerce"
	PromptCategoryAds       PromptCategory = "ads"
	PromptCategoryGeneral   PromptCategory = "general"
)

// ValidPromptCategories 允许的模板分类
var ValidPromptCategories = []PromptCategory{
	PromptCategoryBlog,
	PromptCategorySEO,
	PromptCategoryEcommerce,
	PromptCategoryAds,
	PromptCategoryGeneral,
}

// IsValid 检查分类是否合法
func (c PromptCategory) IsValid() bool {
	for _, v := range ValidPromptCategories {
		if c == v {
			return true
		}
	}
	return false
}

// PromptTemplate 带 {{variable}} 占位符的提示词模板。
// TenantID 为空表示系统模板；Variables 始终由 Body 推导，生成流程不会修改模板。
type PromptTemplate struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID    *string        `json:"tenant_id,omitempty" gorm:"type:uuid;index"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Alias       *string        `json:"alias,omitempty" gorm:"type:varchar(100)"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Body        string         `json:"body" gorm:"type:text;not null"`
	Variables   pq.StringArray `json:"variables" gorm:"type:text[];not null;default:'{}'"`
	Category    PromptCategory `json:"category" gorm:"type:varchar(50);not null;default:general"`
	IsActive    bool           `json:"is_active" gorm:"not null;default:true"`
	IsSystem    bool           `json:"is_system" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PromptTemplate) TableName() string {
	return "prompt_templates"
}

// VisibleTo 模板对租户可见：属于该租户或为系统模板
func (t *PromptTemplate) VisibleTo(tenantID string) bool {
	if t.IsSystem || t.TenantID == nil {
		return true
	}
	return *t.TenantID == tenantID
}

// OwnedBy 模板是否归属于该租户（系统模板不归属任何租户）
func (t *PromptTemplate) OwnedBy(tenantID string) bool {
	return !t.IsSystem && t.TenantID != nil && *t.TenantID == tenantID
}

// AliasValue 返回别名，未设置时为空串
func (t *PromptTemplate) AliasValue() string {
	if t.Alias == nil {
		return ""
	}
	return *t.Alias
}

// Copy 为租户创建可编辑副本：名称追加 " (Copy)"，清空别名，非系统模板
func (t *PromptTemplate) Copy(tenantID string) *PromptTemplate {
	tid := tenantID
	vars := make(pq.StringArray, len(t.Variables))
	copy(vars, t.Variables)
	return &PromptTemplate{
		TenantID:    &tid,
		Name:        t.Name + " (Copy)",
		Description: t.Description,
		Body:        t.Body,
		Variables:   vars,
		Category:    t.Category,
		IsActive:    t.IsActive,
		IsSystem:    false,
	}
}
