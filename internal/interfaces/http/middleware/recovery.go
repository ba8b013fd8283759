package middleware

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

// Recovery 捕获 handler panic，记录堆栈后返回 500。
// 断开的连接由 gin 识别并直接中止，不再尝试写响应。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		logger.Error(c.Request.Context(), "panic recovered", fmt.Errorf("%v", rec),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"stack", string(debug.Stack()),
		)
		dto.FromAppError(c, errors.ErrInternalError)
		c.Abort()
	})
}
