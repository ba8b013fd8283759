package router

import "github.com/gin-gonic/gin"

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers, requireTenant, rateLimit gin.HandlerFunc) {
	// 平台配置（不要求租户）
	admin := v1.Group("/admin")
	{
		admin.GET("/settings", h.Settings.ListSettings)
		admin.GET("/settings/models", h.Settings.ListModels)
		admin.POST("/settings/validate-key", h.Settings.ValidateKey)
		admin.PUT("/settings/:key", h.Settings.SetSetting)
		admin.DELETE("/settings/:key", h.Settings.DeleteSetting)
	}

	tenant := v1.Group("", requireTenant)

	prompts := tenant.Group("/prompts")
	{
		prompts.GET("", h.Prompt.ListPrompts)
		prompts.POST("", h.Prompt.CreatePrompt)
		prompts.POST("/detect-variables", h.Prompt.DetectVariables)
		prompts.GET("/:id", h.Prompt.GetPrompt)
		prompts.PUT("/:id", h.Prompt.UpdatePrompt)
		prompts.DELETE("/:id", h.Prompt.DeletePrompt)
		prompts.POST("/:id/duplicate", h.Prompt.DuplicatePrompt)
	}

	generations := tenant.Group("/generations")
	{
		generations.GET("", h.Generation.ListGenerations)
		generations.GET("/:id", h.Generation.GetGeneration)
		generations.POST("", rateLimit, h.Generation.CreateGeneration)
		generations.POST("/:id/retry", rateLimit, h.Generation.RetryGeneration)
		generations.POST("/meta-title", rateLimit, h.Generation.GenerateMetaTitle)
		generations.POST("/meta-description", rateLimit, h.Generation.GenerateMetaDescription)
		generations.POST("/blog-article", rateLimit, h.Generation.GenerateBlogArticle)
	}

	tenant.GET("/usage", h.Usage.GetUsage)
}
