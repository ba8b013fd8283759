package handler

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"

	"ainstein-ai-api/internal/application/generation"
	"ainstein-ai-api/internal/application/settings"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/infrastructure/llm"
	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

// SettingsService 平台配置覆盖
type SettingsService interface {
	List(ctx context.Context) ([]*entity.PlatformSetting, error)
	Set(ctx context.Context, key, value string) (*entity.PlatformSetting, error)
	Delete(ctx context.Context, key string) error
}

// GeneratorAdmin 生成器管理：配置变更后重建、列模型、校验密钥
type GeneratorAdmin interface {
	Reload(ctx context.Context) error
	GeneratorName() string
	AvailableModels(ctx context.Context) (*generation.ModelCatalog, error)
	ValidateKey(ctx context.Context, provider, apiKey string) (*generation.KeyCheck, error)
}

// SettingsHandler 平台配置处理器
type SettingsHandler struct {
	svc    SettingsService
	reload GeneratorAdmin
}

// NewSettingsHandler 创建平台配置处理器
func NewSettingsHandler(svc SettingsService, reload GeneratorAdmin) *SettingsHandler {
	return &SettingsHandler{svc: svc, reload: reload}
}

// ListSettings 列出管理员覆盖项
// @Summary 列出平台配置覆盖项
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[dto.SettingListResponse]
// @Router /v1/admin/settings [get]
func (h *SettingsHandler) ListSettings(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list settings")
		return
	}

	out := make([]*dto.SettingResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToSettingResponse(it))
	}
	resp := dto.SettingListResponse{Settings: out, AllowedKeys: settings.AllowedKeys()}
	if h.reload != nil {
		resp.Generator = h.reload.GeneratorName()
	}
	dto.Success(c, resp)
}

// SetSetting 写入覆盖项
// @Summary 写入平台配置覆盖项
// @Description 写入后立即重建生成器；新配置无效时保留旧生成器并返回 503
// @Tags Admin
// @Accept json
// @Produce json
// @Param key path string true "配置键"
// @Param body body dto.SetSettingRequest true "配置值"
// @Success 200 {object} dto.Response[dto.SettingResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/admin/settings/{key} [put]
func (h *SettingsHandler) SetSetting(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	setting, err := h.svc.Set(ctx, dto.BindKey(c), req.Value)
	if err != nil {
		writeError(c, err, "failed to update setting")
		return
	}
	if !h.applyReload(c) {
		return
	}

	resp := dto.ToSettingResponse(setting)
	if resp.Key == settings.KeyAPIKey {
		resp.Value = settings.MaskSecret(resp.Value)
	}
	dto.Success(c, resp)
}

// DeleteSetting 删除覆盖项
// @Summary 删除平台配置覆盖项
// @Tags Admin
// @Param key path string true "配置键"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/admin/settings/{key} [delete]
func (h *SettingsHandler) DeleteSetting(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), dto.BindKey(c)); err != nil {
		writeError(c, err, "failed to delete setting")
		return
	}
	if !h.applyReload(c) {
		return
	}
	dto.NoContent(c)
}

// ListModels 列出可选模型
// @Summary 列出当前提供商可用的模型
// @Description 提供商不支持或调用失败时返回内置候选列表（fallback=true）
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[dto.ModelListResponse]
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/admin/settings/models [get]
func (h *SettingsHandler) ListModels(c *gin.Context) {
	if h.reload == nil {
		dto.Success(c, dto.ToModelListResponse(&generation.ModelCatalog{Models: slices.Clone(llm.FallbackModels), Fallback: true}))
		return
	}
	catalog, err := h.reload.AvailableModels(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list models")
		return
	}
	dto.Success(c, dto.ToModelListResponse(catalog))
}

// ValidateKey 校验候选密钥
// @Summary 校验 LLM 密钥
// @Description 用候选密钥发起一次轻量调用，不修改任何配置
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.ValidateKeyRequest true "候选密钥"
// @Success 200 {object} dto.Response[dto.ValidateKeyResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/admin/settings/validate-key [post]
func (h *SettingsHandler) ValidateKey(c *gin.Context) {
	var req dto.ValidateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if h.reload == nil {
		writeError(c, errors.ErrConfiguration, "generator not available")
		return
	}
	check, err := h.reload.ValidateKey(c.Request.Context(), req.Provider, req.APIKey)
	if err != nil {
		writeError(c, err, "failed to validate api key")
		return
	}
	dto.Success(c, dto.ToValidateKeyResponse(check))
}

func (h *SettingsHandler) applyReload(c *gin.Context) bool {
	if h.reload == nil {
		return true
	}
	if err := h.reload.Reload(c.Request.Context()); err != nil {
		logger.Warn(c.Request.Context(), "setting saved but generator reload failed", "error", err.Error())
		writeError(c, err, "failed to reload generator")
		return false
	}
	return true
}
