package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "quizku_backend/internals/databases"
	"quizku_backend/internals/databases/dbtest"
	"quizku_backend/internals/features/settings/model"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	db := dbtest.Open(t)
	assert.Equal(t, DefaultTelegramAdminUsername, Load(context.Background(), db).TelegramAdminUsername)
}

func TestLoadDefaultsWhenTableMissing(t *testing.T) {
	db := dbtest.OpenEmpty(t)
	assert.Equal(t, Defaults(), Load(context.Background(), db))
}

func TestUpsert(t *testing.T) {
	db := dbtest.Open(t)
	admin := uuid.New()
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := Upsert(dbtest.AsAdmin(), db, "site_title", "x", admin, now)
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = Upsert(dbtest.AsAdmin(), db, model.KeyTelegramAdminUsername, "a b", admin, now)
	assert.ErrorIs(t, err, ErrInvalidValue)

	row, err := Upsert(dbtest.AsAdmin(), db, model.KeyTelegramAdminUsername, "@quizku_admin", admin, now)
	require.NoError(t, err)
	assert.Equal(t, "quizku_admin", row.AppSettingValue)

	_, err = Upsert(dbtest.AsAdmin(), db, model.KeyTelegramAdminUsername, "quizku_support", admin, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "quizku_support", Load(context.Background(), db).TelegramAdminUsername)

	var n int64
	db.Model(&model.AppSettingModel{}).Count(&n)
	assert.EqualValues(t, 1, n)

	var stored model.AppSettingModel
	require.NoError(t, db.First(&stored, "app_setting_key = ?", model.KeyTelegramAdminUsername).Error)
	require.NotNil(t, stored.AppSettingUpdatedBy)
	assert.Equal(t, admin, *stored.AppSettingUpdatedBy)
}

func TestUpsertRejectedForNonAdmin(t *testing.T) {
	db := dbtest.Open(t)
	_, err := Upsert(dbtest.AsUser(), db, model.KeyTelegramAdminUsername, "someone_else", uuid.New(), time.Now().UTC())
	assert.ErrorIs(t, err, database.ErrWriteForbidden)
	assert.Equal(t, DefaultTelegramAdminUsername, Load(context.Background(), db).TelegramAdminUsername)
}
