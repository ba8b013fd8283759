package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ainstein-ai-api/internal/domain/entity"
)

// PlatformSettingRepository 平台配置仓储实现
type PlatformSettingRepository struct {
	client *Client
}

// NewPlatformSettingRepository 创建平台配置仓储
func NewPlatformSettingRepository(client *Client) *PlatformSettingRepository {
	return &PlatformSettingRepository{client: client}
}

// Get 获取单项配置
func (r *PlatformSettingRepository) Get(ctx context.Context, key string) (*entity.PlatformSetting, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlatformSettingRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var setting entity.PlatformSetting
	if err := db.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get platform setting: %w", err)
	}
	return &setting, nil
}

// List 获取全部配置
func (r *PlatformSettingRepository) List(ctx context.Context) ([]*entity.PlatformSetting, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlatformSettingRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var settings []*entity.PlatformSetting
	if err := db.Order("key ASC").Find(&settings).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list platform settings: %w", err)
	}
	return settings, nil
}

// Upsert 写入或覆盖配置
func (r *PlatformSettingRepository) Upsert(ctx context.Context, setting *entity.PlatformSetting) error {
	ctx, span := tracer.Start(ctx, "postgres.PlatformSettingRepository.Upsert")
	defer span.End()

	setting.UpdatedAt = time.Now()
	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert platform setting: %w", err)
	}
	return nil
}

// Delete 删除配置
func (r *PlatformSettingRepository) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "postgres.PlatformSettingRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.PlatformSetting{}, "key = ?", key).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete platform setting: %w", err)
	}
	return nil
}
