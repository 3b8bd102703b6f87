package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
)

var DB *gorm.DB

// GormConfig dipakai bersama koneksi utama, seeder, dan DB test.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true, // 23505 → gorm.ErrDuplicatedKey
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// Catatan: kalau pakai PgBouncer, arahkan DB_PORT ke port PgBouncer dan biarkan PreferSimpleProtocol=true
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  configs.PostgresDSN("quizku"),
		PreferSimpleProtocol: true,
	}), GormConfig())
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	if err := RegisterWriteGuard(db); err != nil {
		log.Fatalf("❌ Gagal pasang write-guard: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(DB); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		var n int64
		DB.Table("test_categories").Count(&n)
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
