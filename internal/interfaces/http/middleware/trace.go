package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ainstein-ai-api/pkg/logger"
)

// 探针、指标与文档路由不产生 span 也不计入 HTTP 指标
var unobservedPrefixes = []string{"/health", "/ready", "/live", "/metrics", "/swagger/"}

func isUnobserved(path string) bool {
	for _, p := range unobservedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Trace otelgin 入口 span
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !isUnobserved(r.URL.Path)
	}))
}

// TraceContext 把 trace_id/span_id 写入日志上下文与响应头，并给 span 补上请求 ID
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		sc := span.SpanContext()
		if !sc.IsValid() {
			c.Next()
			return
		}

		traceID, spanID := sc.TraceID().String(), sc.SpanID().String()
		c.Set("trace_id", traceID)
		c.Set("span_id", spanID)
		if reqID := GetRequestID(c); reqID != "" {
			span.SetAttributes(attribute.String("request.id", reqID))
		}

		ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, logger.SpanIDKey, spanID))
		c.Header("X-Trace-ID", traceID)
		c.Next()
	}
}
