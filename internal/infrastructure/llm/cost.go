package llm

import "strings"

// DefaultCostPerToken 单一费率（美元/Token），仅为估算
const DefaultCostPerToken = 0.000002

// CostEstimator 按 Token 线性估算成本，支持按模型覆盖费率
type CostEstimator struct {
	flat   float64
	models map[string]float64
}

// NewCostEstimator 创建成本估算器
func NewCostEstimator(flat float64, models map[string]float64) *CostEstimator {
	if flat <= 0 {
		flat = DefaultCostPerToken
	}
	m := make(map[string]float64, len(models))
	for k, v := range models {
		if v > 0 {
			m[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
	return &CostEstimator{flat: flat, models: m}
}

// Rate 返回模型费率
func (e *CostEstimator) Rate(model string) float64 {
	if r, ok := e.models[strings.ToLower(strings.TrimSpace(model))]; ok {
		return r
	}
	return e.flat
}

// Estimate 估算成本 = tokens × rate
func (e *CostEstimator) Estimate(model string, tokens int) float64 {
	if tokens <= 0 {
		return 0
	}
	return float64(tokens) * e.Rate(model)
}
