package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
	authRepo "quizku_backend/internals/features/users/auth/repository"
)

// RunTokenCleanup: hapus blacklist yang sudah lewat TTL dan refresh token mati.
func RunTokenCleanup(ctx context.Context, db *gorm.DB, now time.Time, ttlDays int) {
	log.Println("[CLEANUP] Menjalankan pembersihan token_blacklist...")

	deleteBefore := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	if n, err := authRepo.CleanupExpiredBlacklist(ctx, db, deleteBefore); err != nil {
		log.Printf("[CLEANUP ERROR] Gagal hapus token: %v", err)
	} else if n > 0 {
		log.Printf("[CLEANUP] %d token kadaluarsa dihapus", n)
	} else {
		log.Println("[CLEANUP] Tidak ada token yang memenuhi syarat dihapus")
	}

	if n, err := authRepo.DeleteExpiredRefreshTokens(ctx, db, now); err != nil {
		log.Printf("[CLEANUP ERROR] Gagal hapus refresh token: %v", err)
	} else if n > 0 {
		log.Printf("[CLEANUP] %d refresh token mati dihapus", n)
	}
}

// StartBlacklistCleanupScheduler: tiap hari 03:00 (waktu server).
func StartBlacklistCleanupScheduler(db *gorm.DB) *cron.Cron {
	ttlDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)

	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		RunTokenCleanup(ctx, db, time.Now().UTC(), ttlDays)
	}); err != nil {
		log.Printf("[CLEANUP] cron schedule invalid: %v", err)
		return nil
	}
	c.Start()
	log.Printf("[CLEANUP] scheduler aktif, ttl=%d hari", ttlDays)
	return c
}
