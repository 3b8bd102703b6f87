package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quizku_backend/internals/databases/dbtest"
	userModel "quizku_backend/internals/features/users/user/model"
	helper "quizku_backend/internals/helpers"
)

func newTestApp(db *gorm.DB, callerID uuid.UUID) *fiber.App {
	ctrl := NewAdminUserController(db)
	ctrl.Now = func() time.Time { return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC) }

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, callerID.String())
		return c.Next()
	})
	app.Get("/users", ctrl.GetUsers)
	app.Post("/grant-subscription", ctrl.GrantSubscription)
	app.Post("/toggle-admin", ctrl.ToggleAdmin)
	return app
}

func post(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestGrantSubscriptionEndpoint(t *testing.T) {
	db := dbtest.Open(t)
	admin := dbtest.SeedUser(t, db, dbtest.Admin())
	member := dbtest.SeedUser(t, db)
	app := newTestApp(db, admin.ID)

	code, body := post(t, app, "/grant-subscription", fiber.Map{"user_id": member.ID, "months": 1})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["success"])

	var got userModel.UserModel
	require.NoError(t, db.First(&got, "id = ?", member.ID).Error)
	require.NotNil(t, got.SubscriptionEndsAt)
	assert.True(t, got.SubscriptionEndsAt.Equal(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)))

	code, body = post(t, app, "/grant-subscription", fiber.Map{"user_id": member.ID, "months": 0})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])

	code, _ = post(t, app, "/grant-subscription", fiber.Map{"user_id": member.ID, "months": 121})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = post(t, app, "/grant-subscription", fiber.Map{"user_id": uuid.New(), "months": 1})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestToggleAdminEndpoint(t *testing.T) {
	db := dbtest.Open(t)
	admin := dbtest.SeedUser(t, db, dbtest.Admin())
	member := dbtest.SeedUser(t, db)
	app := newTestApp(db, admin.ID)

	code, body := post(t, app, "/toggle-admin", fiber.Map{"user_id": admin.ID, "is_admin": false})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Cannot remove your own admin status. Ask another admin to do it.", body["error"])

	code, _ = post(t, app, "/toggle-admin", fiber.Map{"user_id": member.ID, "is_admin": true})
	assert.Equal(t, fiber.StatusOK, code)
	var got userModel.UserModel
	require.NoError(t, db.First(&got, "id = ?", member.ID).Error)
	assert.True(t, got.IsAdmin)

	code, _ = post(t, app, "/toggle-admin", fiber.Map{"user_id": member.ID})
	assert.Equal(t, fiber.StatusBadRequest, code, "is_admin is required")
}

func TestGetUsersEndpoint(t *testing.T) {
	db := dbtest.Open(t)
	admin := dbtest.SeedUser(t, db, dbtest.Admin())
	dbtest.SeedUser(t, db)
	app := newTestApp(db, admin.ID)

	resp, err := app.Test(httptest.NewRequest("GET", "/users", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data       []map[string]any `json:"data"`
		Pagination map[string]any   `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Data, 2)
	assert.EqualValues(t, 2, body.Pagination["total"])
	_, hasPassword := body.Data[0]["password"]
	assert.False(t, hasPassword)
}
