package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizku_backend/internals/features/settings/model"
)

const DefaultTelegramAdminUsername = "youradmin"

var (
	ErrUnknownKey   = errors.New("unknown setting key")
	ErrInvalidValue = errors.New("invalid setting value")

	reTelegramUsername = regexp.MustCompile(`^[A-Za-z0-9_]{5,32}$`)
)

// AppSettings: pengaturan global bertipe (dibangun dari baris key/value).
type AppSettings struct {
	TelegramAdminUsername string `json:"telegram_admin_username"`
}

func Defaults() AppSettings {
	return AppSettings{TelegramAdminUsername: DefaultTelegramAdminUsername}
}

// normalizers: key yang boleh di-upsert → validasi/normalisasi nilainya.
var normalizers = map[string]func(string) (string, error){
	model.KeyTelegramAdminUsername: func(v string) (string, error) {
		v = strings.TrimPrefix(strings.TrimSpace(v), "@")
		if !reTelegramUsername.MatchString(v) {
			return "", ErrInvalidValue
		}
		return v, nil
	},
}

func IsKnownKey(key string) bool {
	_, ok := normalizers[key]
	return ok
}

// Load: baris hilang atau gagal dibaca → nilai default.
func Load(ctx context.Context, db *gorm.DB) AppSettings {
	out := Defaults()
	var rows []model.AppSettingModel
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		log.Printf("[SETTINGS] load gagal, pakai default: %v", err)
		return out
	}
	for _, r := range rows {
		switch r.AppSettingKey {
		case model.KeyTelegramAdminUsername:
			if v := strings.TrimSpace(r.AppSettingValue); v != "" {
				out.TelegramAdminUsername = v
			}
		}
	}
	return out
}

// Upsert menulis satu key yang dikenal. Write-guard DB tetap memeriksa manage_settings.
func Upsert(ctx context.Context, db *gorm.DB, key, value string, updatedBy uuid.UUID, now time.Time) (*model.AppSettingModel, error) {
	norm, ok := normalizers[key]
	if !ok {
		return nil, ErrUnknownKey
	}
	v, err := norm(value)
	if err != nil {
		return nil, err
	}

	row := &model.AppSettingModel{
		AppSettingKey:       key,
		AppSettingValue:     v,
		AppSettingUpdatedAt: now,
	}
	if updatedBy != uuid.Nil {
		row.AppSettingUpdatedBy = &updatedBy
	}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"app_setting_value", "app_setting_updated_by", "app_setting_updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	log.Printf("[SETTINGS] %s diperbarui oleh %s", key, updatedBy)
	return row, nil
}
