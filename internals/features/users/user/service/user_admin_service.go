package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizku_backend/internals/features/users/user/dto"
	"quizku_backend/internals/features/users/user/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrSelfDemotion  = errors.New("cannot remove own admin status")
	ErrInvalidMonths = errors.New("months must be between 1 and 120")
)

const (
	MinGrantMonths = 1
	MaxGrantMonths = 120
)

// ExtendSubscription: akhir baru = max(now, current) + months bulan kalender.
func ExtendSubscription(now time.Time, current *time.Time, months int) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.AddDate(0, months, 0)
}

// GrantSubscription memperpanjang langganan user dalam satu transaksi.
// Row user dikunci (FOR UPDATE) agar dua grant bersamaan tidak saling menimpa.
func GrantSubscription(ctx context.Context, db *gorm.DB, userID uuid.UUID, months int, now time.Time) (time.Time, error) {
	if months < MinGrantMonths || months > MaxGrantMonths {
		return time.Time{}, ErrInvalidMonths
	}
	var newEnd time.Time
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		newEnd, err = ExtendSubscriptionTx(tx, userID, months, now)
		return err
	})
	return newEnd, err
}

// ExtendSubscriptionTx: versi di dalam transaksi milik caller (dipakai webhook pembayaran).
func ExtendSubscriptionTx(tx *gorm.DB, userID uuid.UUID, months int, now time.Time) (time.Time, error) {
	var u model.UserModel
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Select("id, subscription_ends_at").
		Where("id = ?", userID).
		Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, ErrUserNotFound
		}
		return time.Time{}, err
	}
	newEnd := ExtendSubscription(now.UTC(), u.SubscriptionEndsAt, months)
	if err := tx.Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("subscription_ends_at", newEnd).Error; err != nil {
		return time.Time{}, err
	}
	return newEnd, nil
}

// SetAdmin: toggle-admin. Admin tidak boleh mencabut status admin miliknya sendiri.
func SetAdmin(ctx context.Context, db *gorm.DB, callerID, targetID uuid.UUID, isAdmin bool) error {
	if callerID == targetID && !isAdmin {
		return ErrSelfDemotion
	}
	res := db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", targetID).
		Update("is_admin", isAdmin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type userStatsRow struct {
	model.UserModel
	TotalAttempts  int64
	PassedAttempts int64
	AvgScore       float64
}

// ListUsersWithStats: user terbaru dulu + statistik attempt yang sudah selesai.
func ListUsersWithStats(ctx context.Context, db *gorm.DB, limit, offset int) ([]dto.UserAdminItem, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&model.UserModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userStatsRow
	q := db.WithContext(ctx).
		Table("users AS u").
		Select(`u.*,
			COUNT(a.test_attempt_id) AS total_attempts,
			COALESCE(SUM(CASE WHEN a.test_attempt_passed THEN 1 ELSE 0 END), 0) AS passed_attempts,
			COALESCE(AVG(a.test_attempt_score), 0) AS avg_score`).
		Joins("LEFT JOIN test_attempts a ON a.test_attempt_user_id = u.id AND a.test_attempt_completed_at IS NOT NULL").
		Group("u.id").
		Order("u.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserAdminItem, 0, len(rows))
	for i := range rows {
		out = append(out, dto.UserAdminItem{
			UserResponse:   dto.FromModel(&rows[i].UserModel),
			TotalAttempts:  rows[i].TotalAttempts,
			PassedAttempts: rows[i].PassedAttempts,
			AverageScore:   int(math.Round(rows[i].AvgScore)),
		})
	}
	return out, total, nil
}
