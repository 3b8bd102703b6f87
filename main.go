package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"

	"quizku_backend/internals/configs"
	database "quizku_backend/internals/databases"
	access "quizku_backend/internals/features/access/service"
	subscriptionService "quizku_backend/internals/features/finance/subscriptions/service"
	attemptScheduler "quizku_backend/internals/features/quizzes/attempts/scheduler"
	attemptService "quizku_backend/internals/features/quizzes/attempts/service"
	authScheduler "quizku_backend/internals/features/users/auth/scheduler"
	helperOSS "quizku_backend/internals/helpers/oss"
	middlewares "quizku_backend/internals/middlewares"
	"quizku_backend/internals/pages"
	routes "quizku_backend/internals/route"
	"quizku_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	// 🔌 DB connect + migrate + pool + warm-up
	database.ConnectDB()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("❌ Gagal migrate: %v", err)
	}

	// `quizku seed` → jalankan seed lalu keluar
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		ctx := access.WithActor(context.Background(), access.SystemActor())
		if err := seeds.RunAllSeeds(ctx, database.DB); err != nil {
			log.Fatalf("❌ Seed gagal: %v", err)
		}
		database.Close(database.DB)
		return
	}

	database.TunePool()
	database.WarmUpQueries()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		Views:                   pages.NewEngine(),
		ErrorHandler:            middlewares.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR Cloudflare jika perlu
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	middlewares.SetupMiddlewares(app)

	// ⏱ attempt recorder + countdown
	rec := attemptService.NewRecorder(database.DB, configs.AttemptGrace, attemptService.DefaultTick)
	attemptScheduler.RearmOnStartup(rec)

	// 🖼 OSS (opsional): upload gambar soal + reaper folder spam
	var images helperOSS.ImageStore
	ossSvc, err := helperOSS.NewOSSServiceFromEnv(configs.GetEnv("ALI_OSS_PREFIX", "quizku"))
	if err != nil {
		log.Printf("⚠️ OSS nonaktif: %v", err)
	} else {
		images = ossSvc
	}

	// ✅ MIDTRANS (opsional)
	subs := &subscriptionService.SubscriptionService{
		DB:            database.DB,
		ServerKey:     configs.MidtransServerKey,
		PricePerMonth: configs.SubscriptionPricePerMonth,
	}
	if configs.MidtransServerKey != "" {
		subs.Snap = subscriptionService.NewMidtransSnap(configs.MidtransServerKey, configs.MidtransUseProd)
	}

	// ⏱ scheduler setelah DB siap
	crons := []*cron.Cron{
		authScheduler.StartBlacklistCleanupScheduler(database.DB),
		attemptScheduler.StartAttemptSweepScheduler(rec, configs.AttemptSweepSchedule),
		helperOSS.StartTrashReaperCron(ossSvc),
	}

	// ✅ Routes (API + halaman)
	routes.SetupRoutes(app, routes.Deps{
		DB:            database.DB,
		Recorder:      rec,
		Subscriptions: subs,
		Images:        images,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: http → cron → countdown → pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	for _, c := range crons {
		if c != nil {
			<-c.Stop().Done()
		}
	}
	rec.Timers.Shutdown()
	database.Close(database.DB)
	log.Println("👋 Server berhenti")
}
