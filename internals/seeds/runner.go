package seeds

import (
	"context"
	"log"

	"gorm.io/gorm"

	quizzes "quizku_backend/internals/seeds/quizzes"
	users "quizku_backend/internals/seeds/users/auth"
)

const (
	UsersFile   = "internals/seeds/users/auth/data_users.json"
	QuizzesFile = "internals/seeds/quizzes/data_quizzes.json"
)

// RunAllSeeds: admin dari ENV, user demo, lalu bank soal. Semua idempotent.
func RunAllSeeds(ctx context.Context, db *gorm.DB) error {
	//* User
	if err := users.SeedAdminFromEnv(ctx, db); err != nil {
		return err
	}
	if err := users.SeedUsersFromJSON(ctx, db, UsersFile); err != nil {
		return err
	}

	//* Quizzes
	if _, err := quizzes.SeedQuizzesFromJSON(ctx, db, QuizzesFile); err != nil {
		return err
	}

	log.Println("🌱 Semua seed selesai")
	return nil
}
