package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ainstein-ai-api/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDCtxKey    = "request_id"
	maxRequestIDLength = 64
)

// RequestID 沿用调用方传入的请求 ID，缺失或不合法时生成 UUID。
// 该 ID 会随异步生成任务写入消息元数据，worker 日志可据此串联。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set(requestIDCtxKey, id)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), logger.RequestIDKey, id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 读取当前请求 ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDCtxKey)
}

// 只接受可安全写入日志与响应头的字符
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == ':':
		default:
			return false
		}
	}
	return true
}
