package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quizku_backend/internals/configs"
	"quizku_backend/internals/databases/dbtest"
	access "quizku_backend/internals/features/access/service"
	authModel "quizku_backend/internals/features/users/auth/model"
	userModel "quizku_backend/internals/features/users/user/model"
)

const testSecret = "middleware-test-secret"

func signToken(t *testing.T, id uuid.UUID, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  id.String(),
		"typ": "access",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func seedUser(t *testing.T, db *gorm.DB, admin, active bool) uuid.UUID {
	t.Helper()
	u := &userModel.UserModel{
		UserName: "user" + uuid.NewString()[:8],
		Email:    uuid.NewString() + "@quizku.test",
		Password: "x",
		IsAdmin:  admin,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	if !active {
		require.NoError(t, db.Model(u).Update("is_active", false).Error)
	}
	return u.ID
}

func newProtectedApp(db *gorm.DB, mws ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{AuthMiddleware(db)}, mws...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		st, _ := AccessStatusFrom(c)
		actor, _ := access.ActorFromContext(c.UserContext())
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "admin": st.IsAdmin, "actor": actor.UserID.String()})
	})
	app.Get("/p", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestAuthMiddleware(t *testing.T) {
	configs.JWTSecret = testSecret
	db := dbtest.Open(t)
	app := newProtectedApp(db)

	t.Run("no token", func(t *testing.T) {
		code, body := doGet(t, app, "")
		assert.Equal(t, fiber.StatusUnauthorized, code)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("valid token sets identity and actor", func(t *testing.T) {
		id := seedUser(t, db, true, true)
		code, body := doGet(t, app, signToken(t, id, time.Now().Add(time.Hour)))
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, id.String(), body["user_id"])
		assert.Equal(t, id.String(), body["actor"])
		assert.Equal(t, true, body["admin"])
	})

	t.Run("expired token", func(t *testing.T) {
		id := seedUser(t, db, false, true)
		code, _ := doGet(t, app, signToken(t, id, time.Now().Add(-time.Hour)))
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("wrong signature", func(t *testing.T) {
		id := seedUser(t, db, false, true)
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": id.String(), "exp": time.Now().Add(time.Hour).Unix()})
		s, err := tok.SignedString([]byte("other-secret"))
		require.NoError(t, err)
		code, _ := doGet(t, app, s)
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("blacklisted token", func(t *testing.T) {
		id := seedUser(t, db, false, true)
		s := signToken(t, id, time.Now().Add(time.Hour))
		require.NoError(t, db.Create(&authModel.TokenBlacklist{Token: s, ExpiredAt: time.Now().Add(time.Hour)}).Error)
		code, _ := doGet(t, app, s)
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("inactive user", func(t *testing.T) {
		id := seedUser(t, db, false, false)
		code, _ := doGet(t, app, signToken(t, id, time.Now().Add(time.Hour)))
		assert.Equal(t, fiber.StatusForbidden, code)
	})

	t.Run("unknown user", func(t *testing.T) {
		code, _ := doGet(t, app, signToken(t, uuid.New(), time.Now().Add(time.Hour)))
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})
}

func TestRequireCapability(t *testing.T) {
	configs.JWTSecret = testSecret
	db := dbtest.Open(t)
	app := newProtectedApp(db, OnlyAdmin())

	admin := seedUser(t, db, true, true)
	member := seedUser(t, db, false, true)

	code, _ := doGet(t, app, signToken(t, admin, time.Now().Add(time.Hour)))
	assert.Equal(t, fiber.StatusOK, code)

	code, body := doGet(t, app, signToken(t, member, time.Now().Add(time.Hour)))
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", body["error_code"])
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	configs.JWTSecret = testSecret
	db := dbtest.Open(t)

	app := fiber.New()
	app.Get("/o", OptionalAuth(db), func(c *fiber.Ctx) error {
		_, authed := AccessStatusFrom(c)
		return c.JSON(fiber.Map{"authed": authed})
	})

	req := httptest.NewRequest("GET", "/o", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["authed"])

	id := seedUser(t, db, false, true)
	req = httptest.NewRequest("GET", "/o", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, id, time.Now().Add(time.Hour))})
	resp, err = app.Test(req)
	require.NoError(t, err)
	body = map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["authed"])
}

func TestValidateTokenExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() + 10)}, now, 0))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 10)}, now, 30*time.Second))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{"exp": float64(now.Unix() - 60)}, now, 30*time.Second))
	assert.Error(t, validateTokenExpiry(jwt.MapClaims{}, now, 0))
	assert.NoError(t, validateTokenExpiry(jwt.MapClaims{"exp": "1700000100"}, now, 0))
}
