package route

import (
	"github.com/gofiber/fiber/v2"

	"quizku_backend/internals/constants"
	access "quizku_backend/internals/features/access/service"
	attemptController "quizku_backend/internals/features/quizzes/attempts/controller"
	"quizku_backend/internals/features/quizzes/attempts/service"
	authMiddleware "quizku_backend/internals/middlewares/auth"
)

// AttemptUserRoutes: /api/u/attempts (AuthMiddleware sudah dipasang di group user)
func AttemptUserRoutes(user fiber.Router, rec *service.Recorder) {
	ctrl := attemptController.NewAttemptController(rec)
	canTake := authMiddleware.RequireCapability(access.CapTakeTests, constants.ErrAccessExpired)

	g := user.Group("/attempts")
	g.Get("/", ctrl.History)
	g.Get("/:id", ctrl.Get)
	g.Post("/", canTake, ctrl.Start)
	g.Put("/:id/answers", canTake, ctrl.SaveDraft)
	g.Post("/:id/submit", ctrl.Submit)
}
