package controller

import (
	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/service"
)

type DestinationController struct {
	destinations *service.DestinationService
}

func NewDestinationController(destinations *service.DestinationService) *DestinationController {
	return &DestinationController{destinations: destinations}
}

func (dc *DestinationController) GetPopularDestinations(c *fiber.Ctx) error {
	res := dc.destinations.ListPopularDestinations(c.UserContext())
	return c.JSON(fiber.Map{
		"destinations": res.Value,
		"unavailable":  res.Unavailable(),
	})
}
