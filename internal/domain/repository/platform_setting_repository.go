// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"ainstein-ai-api/internal/domain/entity"
)

// PlatformSettingRepository 平台配置仓储接口
type PlatformSettingRepository interface {
	// Get 获取单项配置，不存在时返回 nil
	Get(ctx context.Context, key string) (*entity.PlatformSetting, error)

	// List 获取全部配置
	List(ctx context.Context) ([]*entity.PlatformSetting, error)

	// Upsert 写入或覆盖配置
	Upsert(ctx context.Context, setting *entity.PlatformSetting) error

	// Delete 删除配置
	Delete(ctx context.Context, key string) error
}
