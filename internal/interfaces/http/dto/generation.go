package dto

import (
	"ainstein-ai-api/internal/application/generation"
	"ainstein-ai-api/internal/domain/entity"
)

// GenerateRequest 生成请求；template_id、template_alias、prompt 三选一
type GenerateRequest struct {
	TemplateID             string                  `json:"template_id,omitempty"`
	TemplateAlias          string                  `json:"template_alias,omitempty"`
	Prompt                 string                  `json:"prompt,omitempty"`
	Variables              map[string]string       `json:"variables,omitempty"`
	PageContext            *generation.PageContext `json:"page_context,omitempty"`
	AdditionalInstructions string                  `json:"additional_instructions,omitempty"`
	Model                  string                  `json:"model,omitempty" binding:"omitempty,max=64"`
	MaxTokens              int                     `json:"max_tokens,omitempty" binding:"omitempty,min=1"`
	Temperature            *float64                `json:"temperature,omitempty" binding:"omitempty,min=0,max=2"`
	Mode                   string                  `json:"mode,omitempty" binding:"omitempty,oneof=sync async"`
}

// ToRequest 转换为服务层请求
func (r *GenerateRequest) ToRequest(tenantID string) *generation.Request {
	return &generation.Request{
		TenantID:               tenantID,
		TemplateID:             r.TemplateID,
		TemplateAlias:          r.TemplateAlias,
		Body:                   r.Prompt,
		Variables:              r.Variables,
		Page:                   r.PageContext,
		AdditionalInstructions: r.AdditionalInstructions,
		Model:                  r.Model,
		MaxTokens:              r.MaxTokens,
		Temperature:            r.Temperature,
	}
}

// ExecutionMode 解析执行方式，缺省使用 fallback
func (r *GenerateRequest) ExecutionMode(fallback string) entity.ExecutionMode {
	mode := r.Mode
	if mode == "" {
		mode = fallback
	}
	if mode == string(entity.ExecutionModeAsync) {
		return entity.ExecutionModeAsync
	}
	return entity.ExecutionModeSync
}

// RetryRequest 重试请求
type RetryRequest struct {
	Mode string `json:"mode,omitempty" binding:"omitempty,oneof=sync async"`
}

// CatalogGenerateRequest 内置模板快捷生成请求
type CatalogGenerateRequest struct {
	Keyword   string `json:"keyword" binding:"required,max=255"`
	Category  string `json:"category,omitempty"`
	WordCount int    `json:"word_count,omitempty" binding:"omitempty,min=1,max=10000"`
}

// GenerationResponse 生成记录响应
type GenerationResponse struct {
	ID                     string   `json:"id"`
	TenantID               string   `json:"tenant_id"`
	TemplateID             *string  `json:"template_id,omitempty"`
	RetryOf                *string  `json:"retry_of,omitempty"`
	PromptType             string   `json:"prompt_type"`
	Status                 string   `json:"status"`
	ExecutionMode          string   `json:"execution_mode"`
	GeneratedContent       string   `json:"generated_content,omitempty"`
	AdditionalInstructions string   `json:"additional_instructions,omitempty"`
	Model                  string   `json:"model,omitempty"`
	TokensUsed             int      `json:"tokens_used"`
	Cost                   float64  `json:"cost"`
	MaxTokens              int      `json:"max_tokens,omitempty"`
	Temperature            *float64 `json:"temperature,omitempty"`
	ErrorMessage           string   `json:"error_message,omitempty"`
	GenerationTimeMs       int      `json:"generation_time_ms"`
	CreatedAt              string   `json:"created_at"`
	StartedAt              string   `json:"started_at,omitempty"`
	CompletedAt            string   `json:"completed_at,omitempty"`
}

// GenerationDetailResponse 生成记录详情（含解析后的提示词与 HTML 预览）
type GenerationDetailResponse struct {
	*GenerationResponse
	ResolvedPrompt string `json:"resolved_prompt"`
	HTMLPreview    string `json:"html_preview,omitempty"`
}

// GenerationListResponse 生成记录列表响应
type GenerationListResponse struct {
	Generations []*GenerationResponse `json:"generations"`
}

// ToGenerationResponse 实体转响应
func ToGenerationResponse(r *entity.GenerationRecord) *GenerationResponse {
	if r == nil {
		return nil
	}
	return &GenerationResponse{
		ID:                     r.ID,
		TenantID:               r.TenantID,
		TemplateID:             r.TemplateID,
		RetryOf:                r.RetryOf,
		PromptType:             r.PromptType,
		Status:                 string(r.Status),
		ExecutionMode:          string(r.ExecutionMode),
		GeneratedContent:       r.GeneratedContent,
		AdditionalInstructions: r.Instructions,
		Model:                  r.Model,
		TokensUsed:             r.TokensUsed,
		Cost:                   r.Cost,
		MaxTokens:              r.MaxTokens,
		Temperature:            r.Temperature,
		ErrorMessage:           r.ErrorMessage,
		GenerationTimeMs:       r.GenerationTimeMs,
		CreatedAt:              formatTime(r.CreatedAt),
		StartedAt:              formatTimePtr(r.StartedAt),
		CompletedAt:            formatTimePtr(r.CompletedAt),
	}
}

// ToGenerationDetailResponse 实体转详情响应
func ToGenerationDetailResponse(r *entity.GenerationRecord, htmlPreview string) *GenerationDetailResponse {
	return &GenerationDetailResponse{
		GenerationResponse: ToGenerationResponse(r),
		ResolvedPrompt:     r.ResolvedPrompt,
		HTMLPreview:        htmlPreview,
	}
}

// ToGenerationListResponse 实体列表转响应
func ToGenerationListResponse(items []*entity.GenerationRecord) *GenerationListResponse {
	out := make([]*GenerationResponse, 0, len(items))
	for _, r := range items {
		out = append(out, ToGenerationResponse(r))
	}
	return &GenerationListResponse{Generations: out}
}
