package dto

import (
	"time"

	"ainstein-ai-api/internal/application/prompt"
	"ainstein-ai-api/internal/domain/entity"
)

// CreatePromptRequest 创建模板请求
type CreatePromptRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Alias       *string `json:"alias,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	Body        string  `json:"template" binding:"required"`
	Category    string  `json:"category,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ToInput 转换为服务层输入
func (r *CreatePromptRequest) ToInput() prompt.Input {
	in := prompt.Input{
		Name:        &r.Name,
		Alias:       r.Alias,
		Description: r.Description,
		Body:        &r.Body,
		IsActive:    r.IsActive,
	}
	if r.Category != "" {
		cat := entity.PromptCategory(r.Category)
		in.Category = &cat
	}
	return in
}

// UpdatePromptRequest 更新模板请求（仅更新非空字段）
type UpdatePromptRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Alias       *string `json:"alias,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
	Body        *string `json:"template,omitempty"`
	Category    *string `json:"category,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ToInput 转换为服务层输入
func (r *UpdatePromptRequest) ToInput() prompt.Input {
	in := prompt.Input{
		Name:        r.Name,
		Alias:       r.Alias,
		Description: r.Description,
		Body:        r.Body,
		IsActive:    r.IsActive,
	}
	if r.Category != nil {
		cat := entity.PromptCategory(*r.Category)
		in.Category = &cat
	}
	return in
}

// PromptResponse 模板响应
type PromptResponse struct {
	ID          string   `json:"id"`
	TenantID    *string  `json:"tenant_id,omitempty"`
	Name        string   `json:"name"`
	Alias       *string  `json:"alias,omitempty"`
	Description string   `json:"description,omitempty"`
	Body        string   `json:"template"`
	Variables   []string `json:"variables"`
	Category    string   `json:"category"`
	IsActive    bool     `json:"is_active"`
	IsSystem    bool     `json:"is_system"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// PromptListResponse 模板列表响应
type PromptListResponse struct {
	Prompts []*PromptResponse `json:"prompts"`
}

// ToPromptResponse 实体转响应
func ToPromptResponse(t *entity.PromptTemplate) *PromptResponse {
	if t == nil {
		return nil
	}
	vars := []string(t.Variables)
	if vars == nil {
		vars = []string{}
	}
	return &PromptResponse{
		ID:          t.ID,
		TenantID:    t.TenantID,
		Name:        t.Name,
		Alias:       t.Alias,
		Description: t.Description,
		Body:        t.Body,
		Variables:   vars,
		Category:    string(t.Category),
		IsActive:    t.IsActive,
		IsSystem:    t.IsSystem,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

// ToPromptListResponse 实体列表转响应
func ToPromptListResponse(items []*entity.PromptTemplate) *PromptListResponse {
	out := make([]*PromptResponse, 0, len(items))
	for _, t := range items {
		out = append(out, ToPromptResponse(t))
	}
	return &PromptListResponse{Prompts: out}
}

// DetectVariablesRequest 变量检测请求；附带 variables 时同时返回缺失项
type DetectVariablesRequest struct {
	Body      string            `json:"template" binding:"required"`
	Variables map[string]string `json:"variables,omitempty"`
}

// DetectVariablesResponse 变量检测响应
type DetectVariablesResponse struct {
	Variables []string `json:"variables"`
	Missing   []string `json:"missing,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
