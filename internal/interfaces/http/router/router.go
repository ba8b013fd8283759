// Package router 提供 HTTP 路由配置
package router

import (
	"ainstein-ai-api/docs"
	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/interfaces/http/handler"
	"ainstein-ai-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Health     *handler.HealthHandler
	Prompt     *handler.PromptHandler
	Generation *handler.GenerationHandler
	Usage      *handler.UsageHandler
	Settings   *handler.SettingsHandler
}

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	h       Handlers
	limiter middleware.RateLimiter
	tenants middleware.TenantLookup
}

// New 创建路由器；tenants 为 nil 时只校验租户 ID 格式
func New(cfg *config.Config, h Handlers, limiter middleware.RateLimiter, tenants middleware.TenantLookup) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		h:       h,
		limiter: limiter,
		tenants: tenants,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Tenant(r.cfg.Security.Tenant))
	r.engine.Use(middleware.Audit(middleware.AuditConfig{
		Enabled:   true,
		SkipPaths: middleware.DefaultAuditSkipPaths,
	}))
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.h.Health.Health)
	r.engine.GET("/ready", r.h.Health.Ready)
	r.engine.GET("/live", r.h.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		path := r.cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}

	docs.SwaggerInfo.Version = r.cfg.App.Version
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	RegisterV1Routes(r.engine.Group("/v1"), r.h,
		middleware.RequireTenant(r.tenants),
		middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter))
}
