package dto

import (
	"ainstein-ai-api/internal/application/generation"
	"ainstein-ai-api/internal/domain/entity"
)

// SetSettingRequest 写入配置请求
type SetSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// SettingResponse 配置响应（密钥已脱敏）
type SettingResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SettingListResponse 配置列表响应
type SettingListResponse struct {
	Settings    []*SettingResponse `json:"settings"`
	AllowedKeys []string           `json:"allowed_keys"`
	Generator   string             `json:"active_generator,omitempty"`
}

// ToSettingResponse 实体转响应
func ToSettingResponse(s *entity.PlatformSetting) *SettingResponse {
	return &SettingResponse{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}

// ModelListResponse 可选模型
type ModelListResponse struct {
	Generator string   `json:"generator,omitempty"`
	Models    []string `json:"models"`
	Fallback  bool     `json:"fallback"`
}

func ToModelListResponse(c *generation.ModelCatalog) *ModelListResponse {
	return &ModelListResponse{Generator: c.Generator, Models: c.Models, Fallback: c.Fallback}
}

// ValidateKeyRequest 密钥校验请求；provider 为空时沿用当前提供商
type ValidateKeyRequest struct {
	APIKey   string `json:"api_key" binding:"required"`
	Provider string `json:"provider"`
}

// ValidateKeyResponse 密钥校验结果
type ValidateKeyResponse struct {
	Valid     bool   `json:"valid"`
	Generator string `json:"generator,omitempty"`
	Error     string `json:"error,omitempty"`
}

func ToValidateKeyResponse(k *generation.KeyCheck) *ValidateKeyResponse {
	return &ValidateKeyResponse{Valid: k.Valid, Generator: k.Generator, Error: k.Error}
}
