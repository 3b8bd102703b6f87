package model

import (
	"time"

	"github.com/google/uuid"
)

// Key yang dikenal aplikasi. Key lain ditolak oleh update-settings.
const (
	KeyTelegramAdminUsername = "telegram_admin_username"
)

type AppSettingModel struct {
	AppSettingKey       string     `json:"app_setting_key" gorm:"column:app_setting_key;size:100;primaryKey"`
	AppSettingValue     string     `json:"app_setting_value" gorm:"column:app_setting_value;type:text;not null"`
	AppSettingUpdatedBy *uuid.UUID `json:"app_setting_updated_by,omitempty" gorm:"column:app_setting_updated_by;type:uuid"`
	AppSettingUpdatedAt time.Time  `json:"app_setting_updated_at" gorm:"column:app_setting_updated_at;not null"`
}

func (AppSettingModel) TableName() string { return "app_settings" }
