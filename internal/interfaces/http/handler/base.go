// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

// writeError 将服务层错误映射为 HTTP 响应；非 AppError 统一记为 500
func writeError(c *gin.Context, err error, fallback string) {
	if errors.IsAppError(err) {
		dto.FromAppError(c, errors.AsAppError(err))
		return
	}
	logger.Error(c.Request.Context(), fallback, err)
	dto.InternalError(c, fallback)
}
