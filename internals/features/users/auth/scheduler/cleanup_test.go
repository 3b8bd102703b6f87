package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizku_backend/internals/databases/dbtest"
	authModel "quizku_backend/internals/features/users/auth/model"
)

func TestRunTokenCleanup(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC)
	user := dbtest.SeedUser(t, db)

	require.NoError(t, db.Create(&[]authModel.TokenBlacklist{
		{Token: "old", ExpiredAt: now.Add(-10 * 24 * time.Hour)},
		{Token: "recent", ExpiredAt: now.Add(-24 * time.Hour)},
		{Token: "active", ExpiredAt: now.Add(time.Hour)},
	}).Error)
	require.NoError(t, db.Create(&[]authModel.RefreshToken{
		{UserID: user.ID, TokenHash: []byte("dead"), ExpiresAt: now.Add(-time.Minute)},
		{UserID: user.ID, TokenHash: []byte("live"), ExpiresAt: now.Add(time.Hour)},
	}).Error)

	RunTokenCleanup(context.Background(), db, now, 7)

	var tokens []string
	require.NoError(t, db.Model(&authModel.TokenBlacklist{}).Order("token").Pluck("token", &tokens).Error)
	assert.Equal(t, []string{"active", "recent"}, tokens)

	var refresh int64
	require.NoError(t, db.Model(&authModel.RefreshToken{}).Count(&refresh).Error)
	assert.EqualValues(t, 1, refresh)
}
