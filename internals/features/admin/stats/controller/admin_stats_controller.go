package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"quizku_backend/internals/features/admin/stats/service"
	helper "quizku_backend/internals/helpers"
)

type AdminStatsController struct {
	DB *gorm.DB
}

func NewAdminStatsController(db *gorm.DB) *AdminStatsController {
	return &AdminStatsController{DB: db}
}

/* GET /api/a/stats */
func (h *AdminStatsController) Get(c *fiber.Ctx) error {
	stats, err := service.LoadAdminStats(c.UserContext(), h.DB)
	if err != nil {
		log.Printf("[STATS] gagal memuat statistik: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat statistik")
	}
	return helper.JsonOK(c, "Statistik admin", stats)
}
