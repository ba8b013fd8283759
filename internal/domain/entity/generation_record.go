// Package entity 定义领域实体
package entity

import (
	"time"
)

// GenerationStatus 生成记录状态
type GenerationStatus string

const (
	GenerationStatusPending   GenerationStatus = "pending"
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// IsTerminal 是否为终态
func (s GenerationStatus) IsTerminal() bool {
	return s == GenerationStatusCompleted || s == GenerationStatusFailed
}

// ExecutionMode 执行方式
type ExecutionMode string

const (
	ExecutionModeSync  ExecutionMode = "sync"
	ExecutionModeAsync ExecutionMode = "async"
)

// GenerationRecord 一次 "解析后提示词 -> LLM" 往返的持久化结果。
// 状态只允许 pending -> completed 或 pending -> failed，终态不可再变更；
// 重试会创建新记录并通过 RetryOf 指回原记录。
type GenerationRecord struct {
	ID               string           `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID         string           `json:"tenant_id" gorm:"type:uuid;index;not null"`
	TemplateID       *string          `json:"template_id,omitempty" gorm:"type:uuid;index"`
	RetryOf          *string          `json:"retry_of,omitempty" gorm:"type:uuid"`
	PromptType       string           `json:"prompt_type" gorm:"type:varchar(64);not null;default:custom"`
	ResolvedPrompt   string           `json:"resolved_prompt" gorm:"type:text;not null"`
	Instructions     string           `json:"additional_instructions,omitempty" gorm:"column:additional_instructions;type:text"`
	GeneratedContent string           `json:"generated_content,omitempty" gorm:"type:text"`
	TokensUsed       int              `json:"tokens_used" gorm:"not null;default:0"`
	TokensReserved   int              `json:"tokens_reserved" gorm:"not null;default:0"`
	Cost             float64          `json:"cost" gorm:"type:numeric(12,6);not null;default:0"`
	Model            string           `json:"model" gorm:"type:varchar(64)"`
	MaxTokens        int              `json:"max_tokens" gorm:"not null;default:0"`
	Temperature      *float64         `json:"temperature,omitempty"`
	Status           GenerationStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	ExecutionMode    ExecutionMode    `json:"execution_mode" gorm:"type:varchar(10);not null;default:sync"`
	ErrorMessage     string           `json:"error_message,omitempty" gorm:"type:text"`
	GenerationTimeMs int              `json:"generation_time_ms" gorm:"not null;default:0"`
	CreatedAt        time.Time        `json:"created_at" gorm:"autoCreateTime"`
	StartedAt        *time.Time       `json:"started_at,omitempty"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
}

func (GenerationRecord) TableName() string {
	return "generation_records"
}

// NewGenerationRecord 创建待处理记录
func NewGenerationRecord(tenantID string, templateID *string, resolvedPrompt string, mode ExecutionMode) *GenerationRecord {
	return &GenerationRecord{
		TenantID:       tenantID,
		TemplateID:     templateID,
		PromptType:     "custom",
		ResolvedPrompt: resolvedPrompt,
		Status:         GenerationStatusPending,
		ExecutionMode:  mode,
		CreatedAt:      time.Now(),
	}
}

// IsTerminal 是否已处于终态
func (r *GenerationRecord) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// Start 标记开始执行时间（仅 pending 状态有效）
func (r *GenerationRecord) Start() {
	if r.Status != GenerationStatusPending {
		return
	}
	now := time.Now()
	r.StartedAt = &now
}

// Complete 完成生成；非 pending 状态返回 false 且不修改记录
func (r *GenerationRecord) Complete(content, model string, tokensUsed int, cost float64) bool {
	if r.Status != GenerationStatusPending {
		return false
	}
	now := time.Now()
	r.Status = GenerationStatusCompleted
	r.GeneratedContent = content
	r.Model = model
	r.TokensUsed = tokensUsed
	r.Cost = cost
	r.ErrorMessage = ""
	r.CompletedAt = &now
	r.GenerationTimeMs = r.elapsedMs(now)
	return true
}

// Fail 标记失败；非 pending 状态返回 false 且不修改记录
func (r *GenerationRecord) Fail(errMsg string) bool {
	if r.Status != GenerationStatusPending {
		return false
	}
	now := time.Now()
	r.Status = GenerationStatusFailed
	r.ErrorMessage = errMsg
	r.CompletedAt = &now
	r.GenerationTimeMs = r.elapsedMs(now)
	return true
}

// CanRetry 只有失败记录可以重试
func (r *GenerationRecord) CanRetry() bool {
	return r.Status == GenerationStatusFailed
}

// NewRetry 基于失败记录创建新的待处理记录（同模板、同提示词）
func (r *GenerationRecord) NewRetry(mode ExecutionMode) *GenerationRecord {
	retry := NewGenerationRecord(r.TenantID, r.TemplateID, r.ResolvedPrompt, mode)
	id := r.ID
	retry.RetryOf = &id
	retry.PromptType = r.PromptType
	retry.Instructions = r.Instructions
	retry.Model = r.Model
	retry.MaxTokens = r.MaxTokens
	retry.Temperature = r.Temperature
	return retry
}

func (r *GenerationRecord) elapsedMs(now time.Time) int {
	start := r.CreatedAt
	if r.StartedAt != nil {
		start = *r.StartedAt
	}
	if start.IsZero() {
		return 0
	}
	return int(now.Sub(start).Milliseconds())
}
