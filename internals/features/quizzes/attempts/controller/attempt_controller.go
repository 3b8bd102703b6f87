package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"quizku_backend/internals/features/quizzes/attempts/dto"
	"quizku_backend/internals/features/quizzes/attempts/model"
	"quizku_backend/internals/features/quizzes/attempts/service"
	helper "quizku_backend/internals/helpers"
)

type AttemptController struct {
	Recorder *service.Recorder
	Validate *validator.Validate
}

func NewAttemptController(rec *service.Recorder) *AttemptController {
	return &AttemptController{Recorder: rec, Validate: helper.NewValidator()}
}

func writeAttemptError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNoAccess):
		return helper.JsonError(c, fiber.StatusForbidden, "Akses habis. Aktifkan langganan untuk mengerjakan test.")
	case errors.Is(err, service.ErrTestNotFound), errors.Is(err, service.ErrAttemptNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoQuestions),
		errors.Is(err, service.ErrInvalidQuestion),
		errors.Is(err, service.ErrInvalidAnswer):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAttemptFinalized), errors.Is(err, service.ErrDeadlinePassed):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Printf("[ATTEMPT] error: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses attempt")
	}
}

// POST /api/u/attempts {test_id}
func (ac *AttemptController) Start(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.StartAttemptRequest
	if ok, err := helper.BindAndValidate(c, ac.Validate, &req); !ok {
		return err
	}
	res, err := ac.Recorder.Start(c.UserContext(), userID, req.TestID)
	if err != nil {
		return writeAttemptError(c, err)
	}
	return helper.JsonCreated(c, "Attempt dimulai", res)
}

// PUT /api/u/attempts/:id/answers {question_id, selected_index}
func (ac *AttemptController) SaveDraft(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.SaveDraftRequest
	if ok, err := helper.BindAndValidate(c, ac.Validate, &req); !ok {
		return err
	}
	if err := ac.Recorder.SaveDraft(c.UserContext(), userID, attemptID, req.QuestionID, *req.SelectedIndex); err != nil {
		return writeAttemptError(c, err)
	}
	return helper.JsonOK(c, "Jawaban disimpan", nil)
}

// POST /api/u/attempts/:id/submit {answers}
// Attempt yang sudah final → 409 beserta hasil yang tersimpan.
func (ac *AttemptController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.SubmitAttemptRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	answers, fieldErrs := req.ParseAnswers()
	if fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	res, err := ac.Recorder.Finalize(c.UserContext(), userID, attemptID, answers, model.FinishSubmitted)
	if errors.Is(err, service.ErrAttemptFinalized) && res != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":    false,
			"error":      err.Error(),
			"message":    err.Error(),
			"error_code": "CONFLICT",
			"data":       res,
		})
	}
	if err != nil {
		return writeAttemptError(c, err)
	}
	return helper.JsonOK(c, "Attempt selesai", res)
}

// GET /api/u/attempts/:id
func (ac *AttemptController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	attemptID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	res, err := ac.Recorder.Get(c.UserContext(), userID, attemptID)
	if err != nil {
		return writeAttemptError(c, err)
	}
	return helper.JsonOK(c, "Detail attempt", res)
}

// GET /api/u/attempts
func (ac *AttemptController) History(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	rows, err := ac.Recorder.History(c.UserContext(), userID)
	if err != nil {
		return writeAttemptError(c, err)
	}
	return helper.JsonList(c, "Riwayat attempt", rows, nil)
}
