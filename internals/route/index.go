// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	accessRoute "quizku_backend/internals/features/access/route"
	statsRoute "quizku_backend/internals/features/admin/stats/route"
	subscriptionRoute "quizku_backend/internals/features/finance/subscriptions/route"
	subscriptionService "quizku_backend/internals/features/finance/subscriptions/service"
	attemptRoute "quizku_backend/internals/features/quizzes/attempts/route"
	attemptService "quizku_backend/internals/features/quizzes/attempts/service"
	categoryRoute "quizku_backend/internals/features/quizzes/categories/route"
	testRoute "quizku_backend/internals/features/quizzes/tests/route"
	settingsRoute "quizku_backend/internals/features/settings/route"
	authRoute "quizku_backend/internals/features/users/auth/route"
	userRoute "quizku_backend/internals/features/users/user/route"
	helperOSS "quizku_backend/internals/helpers/oss"
	authMiddleware "quizku_backend/internals/middlewares/auth"
	"quizku_backend/internals/pages"
)

var startTime time.Time

// Deps: service yang dibuat di main (punya lifecycle sendiri: timer, cron, gateway).
type Deps struct {
	DB            *gorm.DB
	Recorder      *attemptService.Recorder
	Subscriptions *subscriptionService.SubscriptionService
	Images        helperOSS.ImageStore // nil → upload gambar soal 503
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d)

	api := app.Group("/api")

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, d.DB)

	// ===================== PUBLIC (webhook) =====================
	subscriptionRoute.SubscriptionPublicRoutes(api, d.Subscriptions)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + OnlyAdmin)...")
	admin := api.Group("/a", authMiddleware.AuthMiddleware(d.DB), authMiddleware.OnlyAdmin())
	categoryRoute.CategoryAdminRoutes(admin, d.DB)
	testRoute.TestAdminRoutes(admin, d.DB, d.Images)
	userRoute.UserAdminRoutes(admin, d.DB)
	settingsRoute.SettingsAdminRoutes(admin, d.DB)
	statsRoute.AdminStatsRoutes(admin, d.DB)

	// ===================== USER =====================
	log.Println("[INFO] Setting up USER group (Auth)...")
	user := api.Group("/u", authMiddleware.AuthMiddleware(d.DB))
	accessRoute.AccessUserRoutes(user, d.DB)
	testRoute.TestUserRoutes(user, d.DB)
	attemptRoute.AttemptUserRoutes(user, d.Recorder)
	subscriptionRoute.SubscriptionUserRoutes(user, d.Subscriptions)

	// ===================== PAGES =====================
	log.Println("[INFO] Mounting pages...")
	pages.New(d.DB, d.Recorder).Register(app)
}
