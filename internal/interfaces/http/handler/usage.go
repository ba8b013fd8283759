package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"ainstein-ai-api/internal/application/quota"
	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/internal/interfaces/http/middleware"
)

// UsageService 用量统计
type UsageService interface {
	Stats(ctx context.Context, tenantID string) (*quota.Stats, error)
}

// UsageHandler 用量处理器
type UsageHandler struct {
	svc UsageService
}

// NewUsageHandler 创建用量处理器
func NewUsageHandler(svc UsageService) *UsageHandler {
	return &UsageHandler{svc: svc}
}

// GetUsage 获取 Token 用量统计
// @Summary 获取 Token 用量统计
// @Tags Usage
// @Produce json
// @Success 200 {object} dto.Response[dto.UsageResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/usage [get]
func (h *UsageHandler) GetUsage(c *gin.Context) {
	tenantID := middleware.GetTenantIDFromGin(c)

	stats, err := h.svc.Stats(c.Request.Context(), tenantID)
	if err != nil {
		writeError(c, err, "failed to get usage stats")
		return
	}
	dto.Success(c, dto.ToUsageResponse(tenantID, stats))
}
