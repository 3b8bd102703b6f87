package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
	"quizku_backend/internals/databases/dbtest"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

func newAuthApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret, configs.JWTRefreshSecret, configs.TrialDays = "access-secret", "refresh-secret", 3
	db := dbtest.Open(t)
	ac := NewAuthController(db)

	app := fiber.New()
	app.Post("/register", ac.Register)
	app.Post("/login", ac.Login)
	app.Post("/refresh-token", ac.RefreshToken)
	app.Post("/logout", ac.Logout)
	app.Get("/me", authMiddleware.AuthMiddleware(db), ac.Me)
	return app, db
}

func call(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestRegisterLoginMeLogout(t *testing.T) {
	app, _ := newAuthApp(t)

	resp, body := call(t, app, "POST", "/register", fiber.Map{"user_name": "rina", "email": "rina@mail.com", "password": "rahasia123"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)

	resp, _ = call(t, app, "POST", "/register", fiber.Map{"user_name": "rina2", "email": "rina@mail.com", "password": "rahasia123"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, body = call(t, app, "POST", "/register", fiber.Map{"user_name": "rina3", "email": "rina3@mail.com", "password": "short"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "password")

	resp, _ = call(t, app, "POST", "/login", fiber.Map{"identifier": "rina", "password": "wrong-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = call(t, app, "POST", "/login", fiber.Map{"identifier": "rina@mail.com", "password": "rahasia123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	access := cookieByName(resp, "access_token")
	require.NotNil(t, access)
	data := body["data"].(map[string]any)
	assert.Equal(t, access.Value, data["access_token"])

	resp, body = call(t, app, "GET", "/me", nil, access)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	me := body["data"].(map[string]any)
	assert.Equal(t, "rina@mail.com", me["user"].(map[string]any)["email"])
	assert.Equal(t, true, me["access"].(map[string]any)["is_trial_active"])

	resp, _ = call(t, app, "POST", "/logout", nil, access)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, "GET", "/me", nil, access)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "blacklisted after logout")
}

func TestRefreshTokenEndpoint(t *testing.T) {
	app, _ := newAuthApp(t)
	call(t, app, "POST", "/register", fiber.Map{"user_name": "dodi", "email": "dodi@mail.com", "password": "rahasia123"})
	resp, _ := call(t, app, "POST", "/login", fiber.Map{"identifier": "dodi", "password": "rahasia123"})
	refresh := cookieByName(resp, "refresh_token")
	require.NotNil(t, refresh)

	resp, _ = call(t, app, "POST", "/refresh-token", nil, refresh)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotNil(t, cookieByName(resp, "refresh_token"))

	resp, _ = call(t, app, "POST", "/refresh-token", nil, refresh)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, "POST", "/refresh-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
