package pages

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	access "quizku_backend/internals/features/access/service"
	attemptModel "quizku_backend/internals/features/quizzes/attempts/model"
	attemptService "quizku_backend/internals/features/quizzes/attempts/service"
	testService "quizku_backend/internals/features/quizzes/tests/service"
	settingsService "quizku_backend/internals/features/settings/service"
	helper "quizku_backend/internals/helpers"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// answerFieldPrefix: nama field radio di form test → q_<question_id>
const answerFieldPrefix = "q_"

// GET /dashboard: katalog per kategori + status akses.
func (p *Pages) Dashboard(c *fiber.Ctx) error {
	catalog, err := testService.LoadCatalog(c.UserContext(), p.DB)
	if err != nil {
		logReadError("catalog", err)
	}
	st, _ := authMiddleware.AccessStatusFrom(c)
	return p.render(c, fiber.StatusOK, "dashboard/index", "Dashboard", fiber.Map{
		"Catalog":  catalog,
		"Access":   st,
		"CanTake":  access.Can(st, access.CapTakeTests),
		"Settings": settingsService.Load(c.UserContext(), p.DB),
		"Notice":   c.Query("notice"),
	})
}

// GET /dashboard/results: riwayat attempt selesai.
func (p *Pages) Results(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return p.redirect(c, authMiddleware.PathLogin)
	}
	items, err := p.Recorder.History(c.UserContext(), userID)
	if err != nil {
		logReadError("history", err)
	}
	return p.render(c, fiber.StatusOK, "dashboard/results", "Hasil Saya", fiber.Map{"Items": items})
}

// GET /test/:testId: mulai (atau lanjutkan) attempt lalu tampilkan soal.
func (p *Pages) TakeTest(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return p.redirect(c, authMiddleware.PathLogin)
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return p.notFound(c)
	}

	attemptID, err := p.Recorder.ResumeOrStart(c.UserContext(), userID, testID)
	switch {
	case errors.Is(err, attemptService.ErrNoAccess):
		return p.redirect(c, authMiddleware.PathDashboard+"?notice=no_access")
	case errors.Is(err, attemptService.ErrNoQuestions):
		return p.redirect(c, authMiddleware.PathDashboard+"?notice=no_questions")
	case errors.Is(err, attemptService.ErrTestNotFound):
		return p.notFound(c)
	case err != nil:
		logReadError("start attempt", err)
		return p.serverError(c)
	}

	detail, err := p.Recorder.Get(c.UserContext(), userID, attemptID)
	if err != nil {
		logReadError("load attempt", err)
		return p.serverError(c)
	}
	return p.render(c, fiber.StatusOK, "test/take", detail.TestTitle, fiber.Map{
		"Attempt":     detail,
		"FieldPrefix": answerFieldPrefix,
	})
}

// POST /test/:testId/submit (form attempt_id, q_<question_id>=index)
func (p *Pages) SubmitTest(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return p.redirect(c, authMiddleware.PathLogin)
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return p.notFound(c)
	}
	attemptID, err := uuid.Parse(strings.TrimSpace(c.FormValue("attempt_id")))
	if err != nil {
		return p.notFound(c)
	}

	reason := attemptModel.FinishSubmitted
	if c.FormValue("reason") == string(attemptModel.FinishTimeout) {
		reason = attemptModel.FinishTimeout
	}

	_, err = p.Recorder.Finalize(c.UserContext(), userID, attemptID, parseAnswerForm(c), reason)
	switch {
	case err == nil, errors.Is(err, attemptService.ErrAttemptFinalized):
		// sudah final (timer/submit ganda): tetap tampilkan hasil tersimpan
	case errors.Is(err, attemptService.ErrAttemptNotFound):
		return p.notFound(c)
	default:
		logReadError("finalize", err)
		return p.serverError(c)
	}
	return p.redirect(c, "/test/"+testID.String()+"/results/"+attemptID.String())
}

// parseAnswerForm: field q_<uuid> dengan nilai 0..3; field lain atau nilai rusak diabaikan.
func parseAnswerForm(c *fiber.Ctx) map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		if !strings.HasPrefix(key, answerFieldPrefix) {
			return
		}
		qid, err := uuid.Parse(strings.TrimPrefix(key, answerFieldPrefix))
		if err != nil {
			return
		}
		idx, err := strconv.Atoi(string(v))
		if err != nil || idx < attemptModel.Unanswered || idx > 3 {
			return
		}
		out[qid] = idx
	})
	return out
}

// GET /test/:testId/results/:attemptId
func (p *Pages) TestResult(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return p.redirect(c, authMiddleware.PathLogin)
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return p.notFound(c)
	}
	attemptID, err := helper.ParseUUIDParam(c, "attemptId")
	if err != nil {
		return p.notFound(c)
	}

	detail, err := p.Recorder.Get(c.UserContext(), userID, attemptID)
	if errors.Is(err, attemptService.ErrAttemptNotFound) || (err == nil && detail.TestID != testID) {
		return p.notFound(c)
	}
	if err != nil {
		logReadError("result", err)
		return p.serverError(c)
	}
	if !detail.Finalized() {
		// belum selesai → kembali ke halaman pengerjaan
		return p.redirect(c, "/test/"+testID.String())
	}
	return p.render(c, fiber.StatusOK, "test/result", "Hasil "+detail.TestTitle, fiber.Map{
		"Attempt":   detail,
		"Threshold": attemptService.PassThreshold,
	})
}

func (p *Pages) notFound(c *fiber.Ctx) error {
	return p.render(c, fiber.StatusNotFound, "error", "Tidak ditemukan", fiber.Map{
		"Message": "Halaman atau data yang Anda cari tidak ditemukan.",
	})
}

func (p *Pages) serverError(c *fiber.Ctx) error {
	return p.render(c, fiber.StatusInternalServerError, "error", "Terjadi kesalahan", fiber.Map{
		"Message": "Terjadi kesalahan pada server. Silakan coba lagi.",
	})
}
