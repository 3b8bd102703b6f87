package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quizku_backend/internals/databases/dbtest"
	"quizku_backend/internals/features/quizzes/categories/model"
	testModel "quizku_backend/internals/features/quizzes/tests/model"
)

func newCategoryApp(db *gorm.DB, actx context.Context) *fiber.App {
	ctrl := NewTestCategoryController(db)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(actx)
		return c.Next()
	})
	app.Get("/categories", ctrl.List)
	app.Post("/categories", ctrl.Create)
	app.Patch("/categories/:id", ctrl.Update)
	app.Delete("/categories/:id", ctrl.Delete)
	return app
}

func send(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestCategoryCRUD(t *testing.T) {
	db := dbtest.Open(t)
	app := newCategoryApp(db, dbtest.AsAdmin())

	code, body := send(t, app, "POST", "/categories", fiber.Map{"test_category_name": "Matematika Dasar", "test_category_time_limit_sec": 600})
	require.Equal(t, fiber.StatusCreated, code, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, "matematika-dasar", data["test_category_slug"])
	id := data["test_category_id"].(string)

	code, body = send(t, app, "POST", "/categories", fiber.Map{"test_category_name": "Matematika  Dasar", "test_category_time_limit_sec": 300})
	require.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "matematika-dasar-2", body["data"].(map[string]any)["test_category_slug"])

	code, body = send(t, app, "POST", "/categories", fiber.Map{"test_category_name": "Bahasa", "test_category_time_limit_sec": 0})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body["errors"], "test_category_time_limit_sec")

	code, body = send(t, app, "PATCH", "/categories/"+id, fiber.Map{"test_category_name": "Aljabar", "test_category_time_limit_sec": 900})
	require.Equal(t, fiber.StatusOK, code)
	data = body["data"].(map[string]any)
	assert.Equal(t, "aljabar", data["test_category_slug"])
	assert.EqualValues(t, 900, data["test_category_time_limit_sec"])

	code, body = send(t, app, "GET", "/categories", nil)
	require.Equal(t, fiber.StatusOK, code)
	list := body["data"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Aljabar", list[0].(map[string]any)["test_category_name"], "ordered by name")

	code, _ = send(t, app, "DELETE", "/categories/"+id, nil)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = send(t, app, "DELETE", "/categories/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = send(t, app, "PATCH", "/categories/not-a-uuid", fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestCategoryDeleteCascadesAndCounts(t *testing.T) {
	db := dbtest.Open(t)
	app := newCategoryApp(db, dbtest.AsAdmin())
	cat, tm, _ := dbtest.SeedQuiz(t, db, 60, 3)

	code, body := send(t, app, "GET", "/categories", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 1, body["data"].([]any)[0].(map[string]any)["test_count"])

	code, _ = send(t, app, "DELETE", "/categories/"+cat.TestCategoryID.String(), nil)
	require.Equal(t, fiber.StatusOK, code)

	var n int64
	require.NoError(t, db.Model(&testModel.TestQuestionModel{}).Where("test_question_test_id = ?", tm.TestID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCategoryWritesRejectedForNonAdminActor(t *testing.T) {
	db := dbtest.Open(t)
	app := newCategoryApp(db, dbtest.AsUser())

	code, _ := send(t, app, "POST", "/categories", fiber.Map{"test_category_name": "IPA", "test_category_time_limit_sec": 60})
	assert.Equal(t, fiber.StatusForbidden, code)

	var n int64
	require.NoError(t, db.Model(&model.TestCategoryModel{}).Count(&n).Error)
	assert.Zero(t, n)
}
