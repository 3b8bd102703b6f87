package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizku_backend/internals/databases/dbtest"
	attemptModel "quizku_backend/internals/features/quizzes/attempts/model"
	userModel "quizku_backend/internals/features/users/user/model"
	userService "quizku_backend/internals/features/users/user/service"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtendSubscription(t *testing.T) {
	now := date(2025, 1, 15)
	past := date(2024, 12, 1)
	future := date(2025, 3, 1)

	cases := []struct {
		name    string
		current *time.Time
		months  int
		want    time.Time
	}{
		{"no subscription extends from now", nil, 1, date(2025, 2, 15)},
		{"expired subscription extends from now", &past, 1, date(2025, 2, 15)},
		{"active subscription extends from its end", &future, 1, date(2025, 4, 1)},
		{"twelve months", nil, 12, date(2026, 1, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, userService.ExtendSubscription(now, tc.current, tc.months))
		})
	}
}

func TestGrantSubscription(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	now := date(2025, 1, 15)

	t.Run("extends existing end", func(t *testing.T) {
		u := dbtest.SeedUser(t, db, dbtest.SubscribedUntil(date(2025, 3, 1)))
		end, err := userService.GrantSubscription(ctx, db, u.ID, 1, now)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 4, 1), end)

		var got userModel.UserModel
		require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
		require.NotNil(t, got.SubscriptionEndsAt)
		assert.True(t, got.SubscriptionEndsAt.Equal(date(2025, 4, 1)))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := userService.GrantSubscription(ctx, db, uuid.New(), 1, now)
		assert.ErrorIs(t, err, userService.ErrUserNotFound)
	})

	t.Run("months out of range", func(t *testing.T) {
		u := dbtest.SeedUser(t, db)
		for _, m := range []int{0, -1, 121} {
			_, err := userService.GrantSubscription(ctx, db, u.ID, m, now)
			assert.ErrorIs(t, err, userService.ErrInvalidMonths, "months=%d", m)
		}
	})
}

func TestSetAdmin(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	admin := dbtest.SeedUser(t, db, dbtest.Admin())
	member := dbtest.SeedUser(t, db)

	err := userService.SetAdmin(ctx, db, admin.ID, admin.ID, false)
	assert.ErrorIs(t, err, userService.ErrSelfDemotion)
	assert.Equal(t, "cannot remove own admin status", err.Error())
	var self userModel.UserModel
	require.NoError(t, db.First(&self, "id = ?", admin.ID).Error)
	assert.True(t, self.IsAdmin, "state must be unchanged")

	require.NoError(t, userService.SetAdmin(ctx, db, admin.ID, member.ID, true))
	var promoted userModel.UserModel
	require.NoError(t, db.First(&promoted, "id = ?", member.ID).Error)
	assert.True(t, promoted.IsAdmin)

	require.NoError(t, userService.SetAdmin(ctx, db, admin.ID, admin.ID, true))
	assert.ErrorIs(t, userService.SetAdmin(ctx, db, admin.ID, uuid.New(), true), userService.ErrUserNotFound)
}

func TestListUsersWithStats(t *testing.T) {
	db := dbtest.Open(t)
	_, tm, _ := dbtest.SeedQuiz(t, db, 60, 1)

	older := dbtest.SeedUser(t, db, dbtest.CreatedAt(time.Now().UTC().Add(-time.Hour)))
	newer := dbtest.SeedUser(t, db)

	now := time.Now().UTC()
	for _, s := range []struct {
		score  int
		passed bool
		done   bool
	}{{80, true, true}, {65, false, true}, {100, true, false}} {
		a := attemptModel.TestAttemptModel{
			TestAttemptUserID:     older.ID,
			TestAttemptTestID:     tm.TestID,
			TestAttemptStartedAt:  now,
			TestAttemptDeadlineAt: now.Add(time.Minute),
			TestAttemptScore:      s.score,
			TestAttemptPassed:     s.passed,
		}
		if s.done {
			a.TestAttemptStatus = attemptModel.AttemptFinalized
			a.TestAttemptCompletedAt = &now
		}
		require.NoError(t, db.Create(&a).Error)
	}

	items, total, err := userService.ListUsersWithStats(context.Background(), db, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	assert.Equal(t, newer.ID, items[0].ID, "newest first")
	assert.EqualValues(t, 0, items[0].TotalAttempts)
	assert.Equal(t, 0, items[0].AverageScore)

	assert.Equal(t, older.ID, items[1].ID)
	assert.EqualValues(t, 2, items[1].TotalAttempts, "open attempt not counted")
	assert.EqualValues(t, 1, items[1].PassedAttempts)
	assert.Equal(t, 73, items[1].AverageScore) // (80+65)/2 = 72.5 → 73
}
