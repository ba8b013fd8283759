// Package quota 提供租户月度 Token 配额的预占、结算与统计
package quota

import (
	"context"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
	"ainstein-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("application.quota")

// Stats 租户 Token 使用统计
type Stats struct {
	TotalTokensUsed    int64   `json:"total_tokens_used"`
	CurrentMonthTokens int64   `json:"current_month_tokens"`
	MonthlyLimit       int64   `json:"monthly_limit"`
	TokensUsedCurrent  int64   `json:"tokens_used_current"`
	RemainingTokens    int64   `json:"remaining_tokens"`
	UsagePercentage    float64 `json:"usage_percentage"`
}

// Accountant 配额记账：所有计数器变更都通过存储层的原子 UPDATE 完成，不做读-改-写
type Accountant struct {
	tenantRepo repository.TenantRepository
	genRepo    repository.GenerationRepository
	now        func() time.Time
}

// NewAccountant 创建配额记账器
func NewAccountant(tenantRepo repository.TenantRepository, genRepo repository.GenerationRepository) *Accountant {
	return &Accountant{
		tenantRepo: tenantRepo,
		genRepo:    genRepo,
		now:        time.Now,
	}
}

// CheckAndReserve 若 used + tokens <= limit 则原子递增并返回 true；否则不做任何修改并返回 false。
// tokens <= 0 时视为无操作，返回 true。
func (a *Accountant) CheckAndReserve(ctx context.Context, tenantID string, tokens int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "quota.Accountant.CheckAndReserve")
	span.SetAttributes(attribute.String("tenant.id", tenantID), attribute.Int64("quota.tokens", tokens))
	defer span.End()

	if strings.TrimSpace(tenantID) == "" {
		return false, errors.ErrInvalidParam.WithDetail("tenant id is required")
	}
	if tokens <= 0 {
		return true, nil
	}

	ok, err := a.tenantRepo.ReserveTokens(ctx, tenantID, tokens)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("quota.reserved", ok))
	if !ok {
		metrics.QuotaRejectedTotal.Inc()
		logger.Warn(ctx, "token quota exceeded", "tenant_id", tenantID, "tokens", tokens)
	}
	return ok, nil
}

// Settle 按实际用量与预占量的差额原子调整（结果不小于 0）
func (a *Accountant) Settle(ctx context.Context, tenantID string, delta int64) error {
	if delta == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "quota.Accountant.Settle")
	span.SetAttributes(attribute.String("tenant.id", tenantID), attribute.Int64("quota.delta", delta))
	defer span.End()

	if err := a.tenantRepo.AdjustTokens(ctx, tenantID, delta); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Release 释放预占的 Token
func (a *Accountant) Release(ctx context.Context, tenantID string, tokens int64) error {
	if tokens <= 0 {
		return nil
	}
	return a.Settle(ctx, tenantID, -tokens)
}

// Stats 统计：累计用量、本月用量、月度上限、剩余量与使用百分比（两位小数，上限为 0 时为 0）
func (a *Accountant) Stats(ctx context.Context, tenantID string) (*Stats, error) {
	ctx, span := tracer.Start(ctx, "quota.Accountant.Stats")
	defer span.End()

	q, err := a.tenantRepo.GetQuota(ctx, tenantID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if q == nil {
		return nil, errors.ErrTenantNotFound
	}

	now := a.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	total, err := a.genRepo.GetTokenUsage(ctx, tenantID, time.Time{}, nextMonth)
	if err != nil {
		return nil, err
	}
	month, err := a.genRepo.GetTokenUsage(ctx, tenantID, monthStart, nextMonth)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalTokensUsed:    total,
		CurrentMonthTokens: month,
		MonthlyLimit:       q.TokensMonthlyLimit,
		TokensUsedCurrent:  q.TokensUsedCurrent,
		RemainingTokens:    q.Remaining(),
		UsagePercentage:    usagePercentage(q.TokensUsedCurrent, q.TokensMonthlyLimit),
	}, nil
}

func usagePercentage(used, limit int64) float64 {
	if limit <= 0 {
		return 0
	}
	return math.Round(float64(used)/float64(limit)*100*100) / 100
}
