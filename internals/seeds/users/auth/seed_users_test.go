package user

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizku_backend/internals/databases/dbtest"
	authHelper "quizku_backend/internals/features/users/auth/helper"
	"quizku_backend/internals/features/users/user/model"
)

func TestSeedUserIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

	created, err := SeedUser(ctx, db, UserSeed{Email: " Demo@Quizku.id ", Password: "demo12345", TrialDays: 3}, now)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedUser(ctx, db, UserSeed{Email: "demo@quizku.id", Password: "lain12345"}, now)
	require.NoError(t, err)
	assert.False(t, created)

	var u model.UserModel
	require.NoError(t, db.First(&u, "email = ?", "demo@quizku.id").Error)
	assert.Equal(t, "demo", u.UserName)
	require.NotNil(t, u.TrialEndsAt)
	assert.True(t, u.TrialEndsAt.Equal(now.Add(72*time.Hour)))
	assert.NoError(t, authHelper.CheckPasswordHash(u.Password, "demo12345"))

	_, err = SeedUser(ctx, db, UserSeed{Email: "x@quizku.id"}, now)
	assert.Error(t, err)
}

func TestSeedAdminFromEnv(t *testing.T) {
	db := dbtest.Open(t)

	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	require.NoError(t, SeedAdminFromEnv(context.Background(), db))
	var n int64
	db.Model(&model.UserModel{}).Count(&n)
	assert.Zero(t, n)

	t.Setenv("ADMIN_EMAIL", "admin@quizku.id")
	t.Setenv("ADMIN_PASSWORD", "admin12345")
	require.NoError(t, SeedAdminFromEnv(context.Background(), db))

	var u model.UserModel
	require.NoError(t, db.First(&u, "email = ?", "admin@quizku.id").Error)
	assert.True(t, u.IsAdmin)
	assert.Nil(t, u.TrialEndsAt)
}

func TestSeedUsersFromJSON(t *testing.T) {
	db := dbtest.Open(t)
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"user_name":"a_user","email":"a@quizku.id","password":"rahasia123"}]`), 0o600))

	require.NoError(t, SeedUsersFromJSON(context.Background(), db, path))
	require.NoError(t, SeedUsersFromJSON(context.Background(), db, path))

	var n int64
	db.Model(&model.UserModel{}).Count(&n)
	assert.EqualValues(t, 1, n)

	assert.Error(t, SeedUsersFromJSON(context.Background(), db, filepath.Join(t.TempDir(), "missing.json")))
}
