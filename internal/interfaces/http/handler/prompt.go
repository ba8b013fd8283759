package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"ainstein-ai-api/internal/application/prompt"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/internal/interfaces/http/middleware"
)

// PromptService 模板服务
type PromptService interface {
	Create(ctx context.Context, tenantID string, in prompt.Input) (*entity.PromptTemplate, error)
	Update(ctx context.Context, tenantID, id string, in prompt.Input) (*entity.PromptTemplate, error)
	Get(ctx context.Context, tenantID, id string) (*entity.PromptTemplate, error)
	List(ctx context.Context, tenantID string, q prompt.ListQuery) (*repository.PagedResult[*entity.PromptTemplate], error)
	Delete(ctx context.Context, tenantID, id string) error
	Duplicate(ctx context.Context, tenantID, id string) (*entity.PromptTemplate, error)
	DetectVariables(body string) []string
}

// PromptHandler 提示词模板处理器
type PromptHandler struct {
	svc PromptService
}

// NewPromptHandler 创建模板处理器
func NewPromptHandler(svc PromptService) *PromptHandler {
	return &PromptHandler{svc: svc}
}

// ListPrompts 获取模板列表
// @Summary 获取模板列表
// @Description 获取当前租户可见的模板，可包含系统模板
// @Tags Prompts
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Param include_system query bool false "包含系统模板" default(true)
// @Param category query string false "分类"
// @Param is_active query bool false "是否启用"
// @Param search query string false "按名称、别名、内容搜索"
// @Param sort query string false "排序字段，前缀 - 表示降序" default(-created_at)
// @Success 200 {object} dto.Response[dto.PromptListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/prompts [get]
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	pageReq := dto.BindPage(c)
	includeSystem := true
	if v := dto.BindBool(c, "include_system"); v != nil {
		includeSystem = *v
	}

	q := prompt.ListQuery{
		Filter: repository.PromptTemplateFilter{
			IncludeSystem: includeSystem,
			Category:      entity.PromptCategory(c.Query("category")),
			IsActive:      dto.BindBool(c, "is_active"),
			Search:        strings.TrimSpace(c.Query("search")),
		},
		Sort:       dto.BindSort(c),
		Pagination: pageReq.Pagination(),
	}

	result, err := h.svc.List(ctx, tenantID, q)
	if err != nil {
		writeError(c, err, "failed to list prompts")
		return
	}

	meta := dto.PageMetaOf(result)
	dto.SuccessWithPage(c, dto.ToPromptListResponse(result.Items), meta)
}

// CreatePrompt 创建模板
// @Summary 创建模板
// @Tags Prompts
// @Accept json
// @Produce json
// @Param body body dto.CreatePromptRequest true "模板信息"
// @Success 201 {object} dto.Response[dto.PromptResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/prompts [post]
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	var req dto.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tpl, err := h.svc.Create(ctx, tenantID, req.ToInput())
	if err != nil {
		writeError(c, err, "failed to create prompt")
		return
	}
	dto.Created(c, dto.ToPromptResponse(tpl))
}

// GetPrompt 获取模板详情
// @Summary 获取模板详情
// @Tags Prompts
// @Produce json
// @Param id path string true "模板 ID"
// @Success 200 {object} dto.Response[dto.PromptResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/prompts/{id} [get]
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	tpl, err := h.svc.Get(c.Request.Context(), middleware.GetTenantIDFromGin(c), dto.BindID(c))
	if err != nil {
		writeError(c, err, "failed to get prompt")
		return
	}
	dto.Success(c, dto.ToPromptResponse(tpl))
}

// UpdatePrompt 更新模板
// @Summary 更新模板
// @Tags Prompts
// @Accept json
// @Produce json
// @Param id path string true "模板 ID"
// @Param body body dto.UpdatePromptRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.PromptResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/prompts/{id} [put]
func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	var req dto.UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tpl, err := h.svc.Update(ctx, tenantID, dto.BindID(c), req.ToInput())
	if err != nil {
		writeError(c, err, "failed to update prompt")
		return
	}
	dto.Success(c, dto.ToPromptResponse(tpl))
}

// DeletePrompt 删除模板
// @Summary 删除模板
// @Tags Prompts
// @Param id path string true "模板 ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/prompts/{id} [delete]
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.GetTenantIDFromGin(c), dto.BindID(c)); err != nil {
		writeError(c, err, "failed to delete prompt")
		return
	}
	dto.NoContent(c)
}

// DuplicatePrompt 复制模板
// @Summary 复制模板
// @Description 复制为当前租户可编辑的模板，名称追加 (Copy)，别名清空
// @Tags Prompts
// @Produce json
// @Param id path string true "模板 ID"
// @Success 201 {object} dto.Response[dto.PromptResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/prompts/{id}/duplicate [post]
func (h *PromptHandler) DuplicatePrompt(c *gin.Context) {
	tpl, err := h.svc.Duplicate(c.Request.Context(), middleware.GetTenantIDFromGin(c), dto.BindID(c))
	if err != nil {
		writeError(c, err, "failed to duplicate prompt")
		return
	}
	dto.Created(c, dto.ToPromptResponse(tpl))
}

// DetectVariables 检测模板变量
// @Summary 检测模板变量
// @Description 返回模板中 {{variable}} 占位符的去重列表，用于构建动态表单；附带 variables 时返回未提供取值的变量
// @Tags Prompts
// @Accept json
// @Produce json
// @Param body body dto.DetectVariablesRequest true "模板内容"
// @Success 200 {object} dto.Response[dto.DetectVariablesResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/prompts/detect-variables [post]
func (h *PromptHandler) DetectVariables(c *gin.Context) {
	var req dto.DetectVariablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	vars := h.svc.DetectVariables(req.Body)
	if vars == nil {
		vars = []string{}
	}
	resp := dto.DetectVariablesResponse{Variables: vars}
	if req.Variables != nil {
		resp.Missing = prompt.MissingVariables(req.Body, req.Variables)
	}
	dto.Success(c, resp)
}
