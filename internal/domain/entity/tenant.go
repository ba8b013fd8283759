// Package entity 定义领域实体
package entity

import (
	"time"
)

// TenantStatus 租户状态
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// DefaultMonthlyTokenLimit 新租户的默认月度 Token 配额
const DefaultMonthlyTokenLimit int64 = 100000

// Tenant 租户实体（含月度 Token 配额计数器）
type Tenant struct {
	ID                 string       `json:"id" gorm:"type:uuid;primaryKey"`
	Name               string       `json:"name" gorm:"type:varchar(255);not null"`
	Slug               string       `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Status             TenantStatus `json:"status" gorm:"type:varchar(20);not null;default:active"`
	TokensUsedCurrent  int64        `json:"tokens_used_current" gorm:"not null;default:0"`
	TokensMonthlyLimit int64        `json:"tokens_monthly_limit" gorm:"not null;default:0"`
	CreatedAt          time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant 创建新租户
func NewTenant(name, slug string, monthlyLimit int64) *Tenant {
	if monthlyLimit <= 0 {
		monthlyLimit = DefaultMonthlyTokenLimit
	}
	now := time.Now()
	return &Tenant{
		Name:               name,
		Slug:               slug,
		Status:             TenantStatusActive,
		TokensMonthlyLimit: monthlyLimit,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsActive 检查租户是否活跃
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// TenantQuota 租户配额快照
type TenantQuota struct {
	TenantID           string `json:"tenant_id"`
	TokensUsedCurrent  int64  `json:"tokens_used_current"`
	TokensMonthlyLimit int64  `json:"tokens_monthly_limit"`
}

// Quota 返回租户当前配额快照
func (t *Tenant) Quota() TenantQuota {
	return TenantQuota{
		TenantID:           t.ID,
		TokensUsedCurrent:  t.TokensUsedCurrent,
		TokensMonthlyLimit: t.TokensMonthlyLimit,
	}
}

// Remaining 剩余可用 Token，不小于 0
func (q TenantQuota) Remaining() int64 {
	if r := q.TokensMonthlyLimit - q.TokensUsedCurrent; r > 0 {
		return r
	}
	return 0
}

// Allows 判断再消耗 tokens 是否仍在配额内
func (q TenantQuota) Allows(tokens int64) bool {
	return q.TokensUsedCurrent+tokens <= q.TokensMonthlyLimit
}
