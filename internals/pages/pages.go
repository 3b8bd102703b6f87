package pages

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	access "quizku_backend/internals/features/access/service"
	attemptService "quizku_backend/internals/features/quizzes/attempts/service"
	helper "quizku_backend/internals/helpers"
	middlewares "quizku_backend/internals/middlewares"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// Pages: halaman server-rendered. Mutasi admin memakai /api/a lewat fetch (cookie).
type Pages struct {
	DB       *gorm.DB
	Recorder *attemptService.Recorder
	Validate *validator.Validate
	Now      func() time.Time
}

func New(db *gorm.DB, rec *attemptService.Recorder) *Pages {
	return &Pages{
		DB:       db,
		Recorder: rec,
		Validate: helper.NewValidator(),
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register memasang semua halaman. OptionalAuth + PageGuard dipasang per route
// supaya /api tidak ikut melewati guard halaman.
func (p *Pages) Register(app fiber.Router) {
	guard := []fiber.Handler{authMiddleware.OptionalAuth(p.DB), authMiddleware.PageGuard()}
	page := func(method, path string, h ...fiber.Handler) {
		app.Add(method, path, append(append([]fiber.Handler{}, guard...), h...)...)
	}

	page(fiber.MethodGet, "/", p.Home)

	page(fiber.MethodGet, "/auth/login", p.LoginForm)
	page(fiber.MethodPost, "/auth/login", middlewares.LoginRateLimiter(), p.LoginSubmit)
	page(fiber.MethodGet, "/auth/sign-up", p.SignUpForm)
	page(fiber.MethodPost, "/auth/sign-up", middlewares.RegisterRateLimiter(), p.SignUpSubmit)
	page(fiber.MethodGet, "/auth/sign-up-success", p.SignUpSuccess)
	page(fiber.MethodPost, "/logout", p.Logout)

	page(fiber.MethodGet, "/dashboard", p.Dashboard)
	page(fiber.MethodGet, "/dashboard/results", p.Results)
	page(fiber.MethodGet, "/test/:testId", p.TakeTest)
	page(fiber.MethodPost, "/test/:testId/submit", p.SubmitTest)
	page(fiber.MethodGet, "/test/:testId/results/:attemptId", p.TestResult)

	page(fiber.MethodGet, "/admin", p.AdminHome)
	page(fiber.MethodGet, "/admin/users", p.AdminUsers)
	page(fiber.MethodGet, "/admin/categories", p.AdminCategories)
	page(fiber.MethodGet, "/admin/tests/:id/questions", p.AdminQuestions)
	page(fiber.MethodGet, "/admin/settings", p.AdminSettings)
}

// viewer: identitas untuk layout (navbar).
type viewer struct {
	Authed bool
	Admin  bool
	Status access.AccessStatus
}

func currentViewer(c *fiber.Ctx) viewer {
	st, ok := authMiddleware.AccessStatusFrom(c)
	return viewer{Authed: ok, Admin: ok && access.Can(st, access.CapManageContent), Status: st}
}

func (p *Pages) render(c *fiber.Ctx, status int, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["Viewer"] = currentViewer(c)
	data["Path"] = c.Path()
	return c.Status(status).Render(name, data, Layout)
}

func (p *Pages) redirect(c *fiber.Ctx, to string) error {
	return c.Redirect(to, fiber.StatusSeeOther)
}

// logReadError: kegagalan baca di halaman dicatat lalu halaman tampil kosong/redirect.
func logReadError(where string, err error) {
	log.Printf("[PAGES] %s: %v", where, err)
}
