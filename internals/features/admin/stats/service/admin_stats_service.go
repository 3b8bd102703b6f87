package service

import (
	"context"

	"gorm.io/gorm"

	"quizku_backend/internals/features/admin/stats/dto"
)

const RecentAttemptsLimit = 10

func count(ctx context.Context, db *gorm.DB, table, where string) (int64, error) {
	var n int64
	q := db.WithContext(ctx).Table(table)
	if where != "" {
		q = q.Where(where)
	}
	err := q.Count(&n).Error
	return n, err
}

// LoadAdminStats: total user/test/kategori/attempt selesai + 10 attempt terakhir.
func LoadAdminStats(ctx context.Context, db *gorm.DB) (*dto.AdminStats, error) {
	out := &dto.AdminStats{}
	var err error
	if out.TotalUsers, err = count(ctx, db, "users", ""); err != nil {
		return nil, err
	}
	if out.TotalTests, err = count(ctx, db, "tests", ""); err != nil {
		return nil, err
	}
	if out.TotalCategories, err = count(ctx, db, "test_categories", ""); err != nil {
		return nil, err
	}
	if out.CompletedAttempts, err = count(ctx, db, "test_attempts", "test_attempt_completed_at IS NOT NULL"); err != nil {
		return nil, err
	}

	out.RecentAttempts = []dto.RecentAttempt{}
	err = db.WithContext(ctx).
		Table("test_attempts AS a").
		Select(`a.test_attempt_id,
			u.email AS user_email,
			t.test_title,
			a.test_attempt_score AS score,
			a.test_attempt_passed AS passed,
			a.test_attempt_completed_at AS completed_at`).
		Joins("JOIN users u ON u.id = a.test_attempt_user_id").
		Joins("JOIN tests t ON t.test_id = a.test_attempt_test_id").
		Where("a.test_attempt_completed_at IS NOT NULL").
		Order("a.test_attempt_completed_at DESC").
		Limit(RecentAttemptsLimit).
		Scan(&out.RecentAttempts).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
