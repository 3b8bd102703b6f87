package routes

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
	"quizku_backend/internals/databases/dbtest"
	subscriptionService "quizku_backend/internals/features/finance/subscriptions/service"
	attemptService "quizku_backend/internals/features/quizzes/attempts/service"
	authService "quizku_backend/internals/features/users/auth/service"
	userModel "quizku_backend/internals/features/users/user/model"
	"quizku_backend/internals/pages"
)

func newApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = "routes-test-secret"
	configs.JWTRefreshSecret = "routes-test-refresh"

	db := dbtest.Open(t)
	app := fiber.New(fiber.Config{Views: pages.NewEngine()})
	SetupRoutes(app, Deps{
		DB:            db,
		Recorder:      &attemptService.Recorder{DB: db},
		Subscriptions: &subscriptionService.SubscriptionService{DB: db, ServerKey: "SB-route-test"},
	})
	return app, db
}

func bearer(t *testing.T, db *gorm.DB, u *userModel.UserModel) string {
	t.Helper()
	pair, err := authService.IssueTokens(context.Background(), db, *u, "test", "127.0.0.1", time.Now().UTC())
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func status(t *testing.T, app *fiber.App, method, path, auth, body string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRouteGroups(t *testing.T) {
	app, db := newApp(t)
	user := bearer(t, db, dbtest.SeedUser(t, db, dbtest.TrialUntil(time.Now().UTC().Add(time.Hour))))
	admin := bearer(t, db, dbtest.SeedUser(t, db, dbtest.Admin()))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, false, health["payments_enabled"])
	assert.Equal(t, false, health["images_enabled"])
	assert.NotContains(t, health, "active_countdowns")

	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/", "", ""))

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/api/u/catalog", "", ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/u/catalog", user, ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/u/access/me", user, ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/u/attempts", user, ""))

	assert.Equal(t, fiber.StatusForbidden, status(t, app, "GET", "/api/a/categories", user, ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/a/categories", admin, ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/a/stats", admin, ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/a/settings", admin, ""))
	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/api/a/users", admin, ""))

	// Snap belum dikonfigurasi
	assert.Equal(t, fiber.StatusServiceUnavailable, status(t, app, "POST", "/api/u/subscriptions/checkout", user, `{"months":1}`))
	// webhook publik: signature salah
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "POST", "/api/subscriptions/notification", "",
		`{"order_id":"SUB-1","status_code":"200","gross_amount":"50000.00","signature_key":"x"}`))
}
