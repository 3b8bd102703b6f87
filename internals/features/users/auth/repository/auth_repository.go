// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "quizku_backend/internals/features/users/auth/model"
	userModel "quizku_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func FindUserByEmailOrUsername(ctx context.Context, db *gorm.DB, identifier string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	identifier = strings.TrimSpace(identifier)
	if err := db.WithContext(ctx).
		Where("email = ? OR user_name = ?", strings.ToLower(identifier), identifier).
		Order("created_at ASC").
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", newHash).Error
}

func LinkGoogleID(ctx context.Context, db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", userID).Update("google_id", googleID).Error
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(ctx context.Context, db *gorm.DB, token *authModel.RefreshToken) error {
	return db.WithContext(ctx).Create(token).Error
}

// FindActiveRefreshToken: belum di-revoke dan belum expired pada now.
func FindActiveRefreshToken(ctx context.Context, db *gorm.DB, hash []byte, now time.Time) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	if err := db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, now).
		Take(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// DeleteRefreshTokenByHash mengembalikan jumlah row terhapus (0 = sudah dipakai/tidak ada).
func DeleteRefreshTokenByHash(ctx context.Context, db *gorm.DB, hash []byte) (int64, error) {
	res := db.WithContext(ctx).Where("token_hash = ?", hash).Delete(&authModel.RefreshToken{})
	return res.RowsAffected, res.Error
}

func DeleteExpiredRefreshTokens(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ? OR revoked_at IS NOT NULL", now).Delete(&authModel.RefreshToken{})
	return res.RowsAffected, res.Error
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken idempotent: token yang sama di-blacklist dua kali tidak error.
func BlacklistToken(ctx context.Context, db *gorm.DB, token string, ttl time.Duration, now time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&authModel.TokenBlacklist{
			Token:     token,
			ExpiredAt: now.Add(ttl),
		}).Error
}

// CleanupExpiredBlacklist: hapus token yang expired_at-nya sebelum cutoff.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expired_at < ?", cutoff).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
