package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"ainstein-ai-api/internal/application/generation"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/internal/interfaces/http/middleware"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

// GenerationService 生成服务
type GenerationService interface {
	Generate(ctx context.Context, req *generation.Request) (*entity.GenerationRecord, error)
	Submit(ctx context.Context, req *generation.Request) (*entity.GenerationRecord, error)
	Retry(ctx context.Context, tenantID, recordID string, mode entity.ExecutionMode) (*entity.GenerationRecord, error)
	Get(ctx context.Context, tenantID, id string) (*entity.GenerationRecord, error)
	List(ctx context.Context, tenantID string, filter *repository.GenerationFilter, p repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error)
	GenerateMetaTitle(ctx context.Context, tenantID, keyword, category string) (*entity.GenerationRecord, error)
	GenerateMetaDescription(ctx context.Context, tenantID, keyword, category string) (*entity.GenerationRecord, error)
	GenerateBlogArticle(ctx context.Context, tenantID, keyword string, wordCount int) (*entity.GenerationRecord, error)
}

// GenerationOptions 处理器选项
type GenerationOptions struct {
	DefaultMode   string
	RenderPreview bool
}

// GenerationHandler 内容生成处理器
type GenerationHandler struct {
	svc  GenerationService
	opts GenerationOptions
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(svc GenerationService, opts GenerationOptions) *GenerationHandler {
	if opts.DefaultMode == "" {
		opts.DefaultMode = string(entity.ExecutionModeSync)
	}
	return &GenerationHandler{svc: svc, opts: opts}
}

// CreateGeneration 发起生成
// @Summary 发起内容生成
// @Description mode=sync 时等待生成完成并返回 201；mode=async 时入队并返回 202
// @Tags Generations
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成参数"
// @Success 201 {object} dto.Response[dto.GenerationResponse]
// @Success 202 {object} dto.Response[dto.GenerationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/generations [post]
func (h *GenerationHandler) CreateGeneration(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	mode := req.ExecutionMode(h.opts.DefaultMode)
	if mode == entity.ExecutionModeAsync {
		rec, err := h.svc.Submit(ctx, req.ToRequest(tenantID))
		if err != nil {
			writeError(c, err, "failed to submit generation")
			return
		}
		dto.Accepted(c, dto.ToGenerationResponse(rec))
		return
	}

	rec, err := h.svc.Generate(ctx, req.ToRequest(tenantID))
	if err != nil {
		writeError(c, err, "failed to generate content")
		return
	}
	dto.Created(c, dto.ToGenerationResponse(rec))
}

// ListGenerations 获取生成记录列表
// @Summary 获取生成记录列表
// @Tags Generations
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Param status query string false "状态" Enums(pending, completed, failed)
// @Param template_id query string false "模板 ID"
// @Success 200 {object} dto.Response[dto.GenerationListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/generations [get]
func (h *GenerationHandler) ListGenerations(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)
	pageReq := dto.BindPage(c)

	filter := &repository.GenerationFilter{
		Status:     entity.GenerationStatus(c.Query("status")),
		TemplateID: c.Query("template_id"),
	}

	result, err := h.svc.List(ctx, tenantID, filter, pageReq.Pagination())
	if err != nil {
		writeError(c, err, "failed to list generations")
		return
	}

	meta := dto.PageMetaOf(result)
	dto.SuccessWithPage(c, dto.ToGenerationListResponse(result.Items), meta)
}

// GetGeneration 获取生成记录详情
// @Summary 获取生成记录详情
// @Description 已完成的记录附带 Markdown 渲染后的 HTML 预览
// @Tags Generations
// @Produce json
// @Param id path string true "记录 ID"
// @Success 200 {object} dto.Response[dto.GenerationDetailResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/generations/{id} [get]
func (h *GenerationHandler) GetGeneration(c *gin.Context) {
	ctx := c.Request.Context()

	rec, err := h.svc.Get(ctx, middleware.GetTenantIDFromGin(c), dto.BindID(c))
	if err != nil {
		writeError(c, err, "failed to get generation")
		return
	}

	var preview string
	if h.opts.RenderPreview && rec.Status == entity.GenerationStatusCompleted {
		if preview, err = generation.RenderHTML(rec.GeneratedContent); err != nil {
			logger.Warn(ctx, "failed to render generation preview", "generation_id", rec.ID, "error", err.Error())
		}
	}
	dto.Success(c, dto.ToGenerationDetailResponse(rec, preview))
}

// RetryGeneration 重试失败的生成
// @Summary 重试失败的生成
// @Description 基于失败记录创建新记录，原记录保持不变
// @Tags Generations
// @Accept json
// @Produce json
// @Param id path string true "记录 ID"
// @Param body body dto.RetryRequest false "执行方式"
// @Success 201 {object} dto.Response[dto.GenerationResponse]
// @Success 202 {object} dto.Response[dto.GenerationResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/generations/{id}/retry [post]
func (h *GenerationHandler) RetryGeneration(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RetryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	mode := entity.ExecutionMode(req.Mode)
	if mode == "" {
		mode = entity.ExecutionMode(h.opts.DefaultMode)
	}

	rec, err := h.svc.Retry(ctx, middleware.GetTenantIDFromGin(c), dto.BindID(c), mode)
	if err != nil {
		writeError(c, err, "failed to retry generation")
		return
	}
	if mode == entity.ExecutionModeAsync {
		dto.Accepted(c, dto.ToGenerationResponse(rec))
		return
	}
	dto.Created(c, dto.ToGenerationResponse(rec))
}

// GenerateMetaTitle 生成 meta title
// @Summary 生成 meta title
// @Tags Generations
// @Accept json
// @Produce json
// @Param body body dto.CatalogGenerateRequest true "关键词与分类"
// @Success 201 {object} dto.Response[dto.GenerationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/generations/meta-title [post]
func (h *GenerationHandler) GenerateMetaTitle(c *gin.Context) {
	h.catalog(c, func(ctx context.Context, tenantID string, req dto.CatalogGenerateRequest) (*entity.GenerationRecord, error) {
		return h.svc.GenerateMetaTitle(ctx, tenantID, req.Keyword, req.Category)
	})
}

// GenerateMetaDescription 生成 meta description
// @Summary 生成 meta description
// @Tags Generations
// @Accept json
// @Produce json
// @Param body body dto.CatalogGenerateRequest true "关键词与分类"
// @Success 201 {object} dto.Response[dto.GenerationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/generations/meta-description [post]
func (h *GenerationHandler) GenerateMetaDescription(c *gin.Context) {
	h.catalog(c, func(ctx context.Context, tenantID string, req dto.CatalogGenerateRequest) (*entity.GenerationRecord, error) {
		return h.svc.GenerateMetaDescription(ctx, tenantID, req.Keyword, req.Category)
	})
}

// GenerateBlogArticle 生成博客文章
// @Summary 生成博客文章
// @Tags Generations
// @Accept json
// @Produce json
// @Param body body dto.CatalogGenerateRequest true "关键词与字数"
// @Success 201 {object} dto.Response[dto.GenerationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/generations/blog-article [post]
func (h *GenerationHandler) GenerateBlogArticle(c *gin.Context) {
	h.catalog(c, func(ctx context.Context, tenantID string, req dto.CatalogGenerateRequest) (*entity.GenerationRecord, error) {
		return h.svc.GenerateBlogArticle(ctx, tenantID, req.Keyword, req.WordCount)
	})
}

func (h *GenerationHandler) catalog(c *gin.Context, fn func(context.Context, string, dto.CatalogGenerateRequest) (*entity.GenerationRecord, error)) {
	var req dto.CatalogGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	rec, err := fn(c.Request.Context(), middleware.GetTenantIDFromGin(c), req)
	if err != nil {
		writeError(c, err, "failed to generate content")
		return
	}
	if rec == nil {
		writeError(c, errors.ErrInternalError, "failed to generate content")
		return
	}
	dto.Created(c, dto.ToGenerationResponse(rec))
}
