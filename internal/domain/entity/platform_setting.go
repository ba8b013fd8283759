// Package entity 定义领域实体
package entity

import "time"

// PlatformSetting 管理员可编辑的平台级配置覆盖
type PlatformSetting struct {
	Key       string    `json:"key" gorm:"type:varchar(100);primaryKey"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PlatformSetting) TableName() string {
	return "platform_settings"
}
