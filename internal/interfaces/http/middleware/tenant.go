// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

// TenantLookup 租户存在性检查（由 postgres.TenantRepository 实现）；不存在时返回 nil, nil
type TenantLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
}

// Tenant 从请求头识别租户并写入上下文。
// 认证不在本服务范围内，租户 ID 由上游网关透传。
func Tenant(cfg config.TenantConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Tenant-ID"
	}

	return func(c *gin.Context) {
		tenantID := c.GetHeader(cfg.HeaderName)
		if tenantID == "" {
			tenantID = cfg.DefaultTenantID
		}

		if tenantID != "" {
			c.Set("tenant_id", tenantID)
			ctx := logger.WithContext(c.Request.Context(), logger.TenantIDKey, tenantID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// RequireTenant 租户 ID 缺失或不是 UUID 时返回 400；tenants 非 nil 时未知租户返回 404
func RequireTenant(tenants TenantLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := GetTenantIDFromGin(c)
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":       http.StatusBadRequest,
				"message":    "tenant id is required",
				"error_code": errors.CodeInvalidParam,
				"trace_id":   c.GetString("trace_id"),
			})
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			dto.FromAppError(c, errors.ErrInvalidParam.WithDetail("tenant id must be a UUID"))
			c.Abort()
			return
		}
		if tenants != nil {
			tenant, err := tenants.GetByID(c.Request.Context(), tenantID)
			if err != nil {
				logger.Error(c.Request.Context(), "tenant lookup failed", err, "tenant_id", tenantID)
				dto.FromAppError(c, errors.ErrServiceUnavailable)
				c.Abort()
				return
			}
			if tenant == nil {
				dto.FromAppError(c, errors.ErrTenantNotFound)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// GetTenantIDFromGin 从 Gin Context 中获取租户 ID
func GetTenantIDFromGin(c *gin.Context) string {
	return c.GetString("tenant_id")
}
