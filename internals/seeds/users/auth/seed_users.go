package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	authHelper "quizku_backend/internals/features/users/auth/helper"
	"quizku_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
	// 0 = tanpa trial
	TrialDays int `json:"trial_days"`
}

// SeedUsersFromJSON: idempotent per email, user yang sudah ada dilewati.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, filePath string) error {
	log.Println("📥 Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("baca %s: %w", filePath, err)
	}
	var inputs []UserSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	for _, data := range inputs {
		if _, err := SeedUser(ctx, db, data, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

// SeedUser membuat satu user kalau email belum ada. Return true kalau insert.
func SeedUser(ctx context.Context, db *gorm.DB, data UserSeed, now time.Time) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(data.Email))
	if email == "" || data.Password == "" {
		return false, errors.New("seed user: email & password wajib")
	}

	var existing model.UserModel
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", email)
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashedPassword, err := authHelper.HashPassword(data.Password)
	if err != nil {
		return false, fmt.Errorf("hash password '%s': %w", email, err)
	}

	userName := strings.TrimSpace(data.UserName)
	if userName == "" {
		userName = strings.SplitN(email, "@", 2)[0]
	}
	u := model.UserModel{
		UserName: userName,
		Email:    email,
		Password: hashedPassword,
		IsAdmin:  data.IsAdmin,
		IsActive: true,
	}
	if data.TrialDays > 0 {
		end := now.Add(time.Duration(data.TrialDays) * 24 * time.Hour)
		u.TrialEndsAt = &end
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return false, fmt.Errorf("insert user '%s': %w", email, err)
	}
	log.Printf("✅ Berhasil insert user '%s' (admin=%v)", email, u.IsAdmin)
	return true, nil
}

// SeedAdminFromEnv: ADMIN_EMAIL + ADMIN_PASSWORD. Kosong → dilewati.
func SeedAdminFromEnv(ctx context.Context, db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if strings.TrimSpace(email) == "" || password == "" {
		log.Println("ℹ️ ADMIN_EMAIL/ADMIN_PASSWORD kosong, seed admin dilewati")
		return nil
	}
	_, err := SeedUser(ctx, db, UserSeed{
		UserName: os.Getenv("ADMIN_USERNAME"),
		Email:    email,
		Password: password,
		IsAdmin:  true,
	}, time.Now().UTC())
	return err
}
