// Package dbtest membuka SQLite in-memory dengan skema & write-guard yang sama
// seperti produksi, untuk test per package.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "quizku_backend/internals/databases"
	access "quizku_backend/internals/features/access/service"
)

// Open: DB kosong + AutoMigrate semua model.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db := OpenEmpty(t)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// OpenEmpty: tanpa migrasi (untuk test skema tidak lengkap).
func OpenEmpty(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), cfg)
	require.NoError(t, err)
	require.NoError(t, database.RegisterWriteGuard(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// satu koneksi = satu database in-memory
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// AsSystem: context dengan actor sistem (lolos write-guard), untuk seed data test.
func AsSystem() context.Context {
	return access.WithActor(context.Background(), access.SystemActor())
}

// AsAdmin / AsUser: actor dengan status admin / non-admin.
func AsAdmin() context.Context {
	return access.WithActor(context.Background(), access.Actor{Status: access.AccessStatus{IsAdmin: true, HasAccess: true}})
}

func AsUser() context.Context {
	return access.WithActor(context.Background(), access.Actor{Status: access.AccessStatus{HasAccess: true}})
}
