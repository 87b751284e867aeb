package controller

import (
	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/service"
)

type DashboardController struct {
	dashboard *service.DashboardService
}

func NewDashboardController(dashboard *service.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// GetDashboardStats returns listing and booking totals for the admin dashboard.
func (dc *DashboardController) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := dc.dashboard.Stats(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch dashboard stats",
		})
	}
	return c.JSON(stats)
}
