package dto

import "ainstein-ai-api/internal/application/quota"

// UsageResponse Token 用量统计响应
type UsageResponse struct {
	TenantID           string  `json:"tenant_id"`
	TotalTokensUsed    int64   `json:"total_tokens_used"`
	CurrentMonthTokens int64   `json:"current_month_tokens"`
	MonthlyLimit       int64   `json:"monthly_limit"`
	TokensUsedCurrent  int64   `json:"tokens_used_current"`
	RemainingTokens    int64   `json:"remaining_tokens"`
	UsagePercentage    float64 `json:"usage_percentage"`
}

// ToUsageResponse 统计结果转响应
func ToUsageResponse(tenantID string, s *quota.Stats) *UsageResponse {
	return &UsageResponse{
		TenantID:           tenantID,
		TotalTokensUsed:    s.TotalTokensUsed,
		CurrentMonthTokens: s.CurrentMonthTokens,
		MonthlyLimit:       s.MonthlyLimit,
		TokensUsedCurrent:  s.TokensUsedCurrent,
		RemainingTokens:    s.RemainingTokens,
		UsagePercentage:    s.UsagePercentage,
	}
}
