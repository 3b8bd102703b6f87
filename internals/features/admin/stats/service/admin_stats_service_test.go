package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizku_backend/internals/databases/dbtest"
	attemptModel "quizku_backend/internals/features/quizzes/attempts/model"
)

func TestLoadAdminStats(t *testing.T) {
	db := dbtest.Open(t)
	_, tm, _ := dbtest.SeedQuiz(t, db, 600, 1)
	dbtest.SeedQuiz(t, db, 600, 1)
	u := dbtest.SeedUser(t, db)
	dbtest.SeedUser(t, db, dbtest.Admin())

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		done := base.Add(time.Duration(i) * time.Hour)
		a := attemptModel.TestAttemptModel{
			TestAttemptUserID:      u.ID,
			TestAttemptTestID:      tm.TestID,
			TestAttemptStatus:      attemptModel.AttemptFinalized,
			TestAttemptStartedAt:   done.Add(-time.Minute),
			TestAttemptDeadlineAt:  done.Add(time.Minute),
			TestAttemptCompletedAt: &done,
			TestAttemptScore:       i * 5,
		}
		require.NoError(t, db.Create(&a).Error)
	}
	open := attemptModel.TestAttemptModel{
		TestAttemptUserID:     u.ID,
		TestAttemptTestID:     tm.TestID,
		TestAttemptStartedAt:  base,
		TestAttemptDeadlineAt: base.Add(time.Hour),
	}
	require.NoError(t, db.Create(&open).Error)

	st, err := LoadAdminStats(context.Background(), db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.TotalUsers)
	assert.EqualValues(t, 2, st.TotalTests)
	assert.EqualValues(t, 2, st.TotalCategories)
	assert.EqualValues(t, 12, st.CompletedAttempts)
	require.Len(t, st.RecentAttempts, RecentAttemptsLimit)
	assert.Equal(t, 55, st.RecentAttempts[0].Score, "terbaru dulu")
	assert.Equal(t, u.Email, st.RecentAttempts[0].UserEmail)
	assert.Equal(t, tm.TestTitle, st.RecentAttempts[0].TestTitle)
}
