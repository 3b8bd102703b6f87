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

	"quizku_backend/internals/databases/dbtest"
	"quizku_backend/internals/features/quizzes/attempts/service"
	helper "quizku_backend/internals/helpers"
)

func newAttemptApp(rec *service.Recorder, userID uuid.UUID) *fiber.App {
	ctrl := NewAttemptController(rec)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helper.LocUserID, userID.String())
		return c.Next()
	})
	app.Get("/attempts", ctrl.History)
	app.Get("/attempts/:id", ctrl.Get)
	app.Post("/attempts", ctrl.Start)
	app.Put("/attempts/:id/answers", ctrl.SaveDraft)
	app.Post("/attempts/:id/submit", ctrl.Submit)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
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

func TestAttemptFlowOverHTTP(t *testing.T) {
	db := dbtest.Open(t)
	_, tm, qs := dbtest.SeedQuiz(t, db, 600, 2)
	u := dbtest.SeedUser(t, db, dbtest.TrialUntil(time.Now().UTC().Add(24*time.Hour)))

	rec := &service.Recorder{DB: db, Now: func() time.Time { return time.Now().UTC() }, Grace: service.DefaultGrace}
	app := newAttemptApp(rec, u.ID)

	code, body := call(t, app, "POST", "/attempts", fiber.Map{"test_id": tm.TestID})
	require.Equal(t, fiber.StatusCreated, code, body)
	id := body["data"].(map[string]any)["test_attempt_id"].(string)

	code, _ = call(t, app, "PUT", "/attempts/"+id+"/answers", fiber.Map{"question_id": qs[0].TestQuestionID, "selected_index": 0})
	assert.Equal(t, fiber.StatusOK, code)

	code, body = call(t, app, "PUT", "/attempts/"+id+"/answers", fiber.Map{"question_id": qs[0].TestQuestionID, "selected_index": 7})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body["errors"], "selected_index")

	code, body = call(t, app, "GET", "/attempts/"+id, nil)
	require.Equal(t, fiber.StatusOK, code)
	q0 := body["data"].(map[string]any)["questions"].([]any)[0].(map[string]any)
	assert.NotContains(t, q0, "correct_index")

	code, body = call(t, app, "POST", "/attempts/"+id+"/submit", fiber.Map{"answers": fiber.Map{"bukan-uuid": 1}})
	assert.Equal(t, fiber.StatusBadRequest, code, body)

	code, body = call(t, app, "POST", "/attempts/"+id+"/submit", fiber.Map{"answers": fiber.Map{qs[1].TestQuestionID.String(): 1}})
	require.Equal(t, fiber.StatusOK, code, body)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 100, data["score"])
	assert.Equal(t, true, data["passed"])

	code, body = call(t, app, "POST", "/attempts/"+id+"/submit", nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.EqualValues(t, 100, body["data"].(map[string]any)["score"], "hasil tersimpan dikembalikan")

	code, body = call(t, app, "GET", "/attempts", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body["data"].([]any), 1)
}

func TestAttemptNotOwned(t *testing.T) {
	db := dbtest.Open(t)
	_, tm, _ := dbtest.SeedQuiz(t, db, 600, 1)
	owner := dbtest.SeedUser(t, db, dbtest.Admin())
	stranger := dbtest.SeedUser(t, db, dbtest.Admin())
	rec := &service.Recorder{DB: db, Now: func() time.Time { return time.Now().UTC() }, Grace: service.DefaultGrace}

	code, body := call(t, newAttemptApp(rec, owner.ID), "POST", "/attempts", fiber.Map{"test_id": tm.TestID})
	require.Equal(t, fiber.StatusCreated, code)
	id := body["data"].(map[string]any)["test_attempt_id"].(string)

	code, _ = call(t, newAttemptApp(rec, stranger.ID), "GET", "/attempts/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = call(t, newAttemptApp(rec, stranger.ID), "POST", "/attempts/"+id+"/submit", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestStartWithoutAccess(t *testing.T) {
	db := dbtest.Open(t)
	_, tm, _ := dbtest.SeedQuiz(t, db, 600, 1)
	u := dbtest.SeedUser(t, db)
	rec := &service.Recorder{DB: db, Now: func() time.Time { return time.Now().UTC() }, Grace: service.DefaultGrace}

	code, body := call(t, newAttemptApp(rec, u.ID), "POST", "/attempts", fiber.Map{"test_id": tm.TestID})
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", body["error_code"])
}
