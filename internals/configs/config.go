package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	GoogleClientID   string

	// Masa trial untuk akun baru
	TrialDays int
	// Toleransi submit setelah deadline attempt
	AttemptGrace time.Duration
	// Jadwal cron untuk sweep attempt yang lewat deadline
	AttemptSweepSchedule string
	// Batas waktu context per request (selaras statement_timeout)
	RequestTimeout time.Duration

	MidtransServerKey         string
	MidtransUseProd           bool
	SubscriptionPricePerMonth int64
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	TrialDays = GetEnvInt("TRIAL_DAYS", 3)
	AttemptGrace = time.Duration(GetEnvInt("ATTEMPT_GRACE_SEC", 5)) * time.Second
	AttemptSweepSchedule = GetEnv("ATTEMPT_SWEEP_SCHEDULE", "@every 1m")
	RequestTimeout = GetEnvDuration("REQUEST_TIMEOUT", 5*time.Second)

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = GetEnvBool("MIDTRANS_USE_PROD", false)
	SubscriptionPricePerMonth = int64(GetEnvInt("SUBSCRIPTION_PRICE_PER_MONTH", 50000))

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	if JWTRefreshSecret == "" {
		log.Println("❌ JWT_REFRESH_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_REFRESH_SECRET berhasil dimuat.")
	}

	if GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID belum diset, login Google nonaktif")
	}
	if MidtransServerKey == "" {
		log.Println("⚠️ MIDTRANS_SERVER_KEY belum diset, checkout langganan nonaktif")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetEnvInt mengembalikan def kalau kosong atau bukan angka.
func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[CONFIG] %s=%q bukan angka, pakai default %d", key, v, def)
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// GetEnvDuration: format time.ParseDuration ("5s", "1m30s"). Nilai <= 0 dianggap salah.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[CONFIG] %s=%q bukan durasi valid, pakai default %s", key, v, def)
		return def
	}
	return d
}

// =======================
// DATABASE CONNECTOR
// =======================

// PostgresDSN dipakai bersama oleh koneksi utama dan seeder.
func PostgresDSN(appName string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=%s&options=-c statement_timeout=3000",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
		appName,
	)
}

func InitSeederDB() *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN("quizku-seeder"),
		PreferSimpleProtocol: true, // ✅ hindari cache prepared statement
	}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal koneksi ke database (Seeder): %v", err)
	}
	log.Println("✅ Database (Seeder) terkoneksi.")
	return db
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && err != gorm.ErrRecordNotFound:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
