package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/middleware"
	"stayhere_backend/internal/model"
	"stayhere_backend/internal/service"
	"stayhere_backend/pkg/utils/validation"
)

const (
	defaultHostName     = "Host"
	defaultHostImage    = "/placeholder.svg?height=100&width=100"
	defaultResponseRate = 99
)

var defaultHouseRules = []string{
	"Check-in: 3:00 PM - 8:00 PM",
	"Checkout: 11:00 AM",
	"No smoking",
	"No pets",
}

// PropertyInput is the listing form. Zero counts fall back to 1. Price is a
// pointer so a free listing (0) is accepted while a missing price is not.
type PropertyInput struct {
	Title               string   `json:"title" validate:"required"`
	Description         string   `json:"description"`
	Location            string   `json:"location" validate:"required"`
	Price               *float64 `json:"price" validate:"required,gte=0"`
	Bedrooms            int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms           int      `json:"bathrooms" validate:"gte=0"`
	Guests              int      `json:"guests" validate:"gte=0"`
	Images              []string `json:"images" validate:"min=1"`
	Amenities           []string `json:"amenities"`
	IsFeatured          bool     `json:"isFeatured"`
	LocationDescription string   `json:"location_description"`
	HouseRules          []string `json:"house_rules"`
}

type PropertyController struct {
	properties *service.PropertyService
	now        func() time.Time
}

func NewPropertyController(properties *service.PropertyService) *PropertyController {
	return &PropertyController{properties: properties, now: time.Now}
}

// ListProperties returns every property, or the search result when any of
// location, guests or max_price is given.
func (pc *PropertyController) ListProperties(c *fiber.Ctx) error {
	location := strings.TrimSpace(c.Query("location"))
	guests, _ := strconv.Atoi(c.Query("guests"))
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)

	var res service.Result[[]model.Property]
	if location != "" || guests > 0 || maxPrice > 0 {
		res = pc.properties.SearchProperties(c.UserContext(), service.PropertySearch{
			Location: location,
			Guests:   guests,
			MaxPrice: maxPrice,
		})
	} else {
		res = pc.properties.ListProperties(c.UserContext())
	}

	return c.JSON(fiber.Map{
		"properties":  res.Value,
		"unavailable": res.Unavailable(),
	})
}

func (pc *PropertyController) ListFeaturedProperties(c *fiber.Ctx) error {
	res := pc.properties.ListFeaturedProperties(c.UserContext())
	return c.JSON(fiber.Map{
		"properties":  res.Value,
		"unavailable": res.Unavailable(),
	})
}

func (pc *PropertyController) GetProperty(c *fiber.Ctx) error {
	res := pc.properties.GetProperty(c.UserContext(), c.Params("id"))
	if res.Unavailable() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Could not fetch property",
		})
	}
	if res.Value == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}
	return c.JSON(res.Value)
}

func (pc *PropertyController) CreateProperty(c *fiber.Ctx) error {
	input := new(PropertyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validation.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	property := model.Property{
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		Location:            strings.TrimSpace(input.Location),
		Price:               *input.Price,
		Bedrooms:            atLeastOne(input.Bedrooms),
		Bathrooms:           atLeastOne(input.Bathrooms),
		Guests:              atLeastOne(input.Guests),
		Images:              input.Images,
		Amenities:           input.Amenities,
		Status:              model.PropertyStatusActive,
		IsFeatured:          input.IsFeatured,
		Host:                pc.hostFor(c),
		LocationDescription: input.LocationDescription,
		HouseRules:          input.HouseRules,
	}
	if len(property.HouseRules) == 0 {
		property.HouseRules = append([]string(nil), defaultHouseRules...)
	}

	id, err := pc.properties.CreateProperty(c.UserContext(), property)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProperty) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property",
		})
	}

	property.ID = id
	return c.Status(fiber.StatusCreated).JSON(property)
}

func (pc *PropertyController) UpdateProperty(c *fiber.Ctx) error {
	input := new(model.PropertyUpdate)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := pc.properties.UpdateProperty(c.UserContext(), c.Params("id"), *input); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProperty):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrPropertyNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Property not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update property",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Property updated successfully",
	})
}

func (pc *PropertyController) DeleteProperty(c *fiber.Ctx) error {
	if err := pc.properties.DeleteProperty(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Property deleted successfully",
	})
}

func (pc *PropertyController) hostFor(c *fiber.Ctx) *model.Host {
	host := &model.Host{
		Name:         defaultHostName,
		Image:        defaultHostImage,
		Joined:       strconv.Itoa(pc.now().Year()),
		ResponseRate: defaultResponseRate,
	}
	if identity := middleware.CurrentUser(c); identity != nil {
		if identity.DisplayName != "" {
			host.Name = identity.DisplayName
		}
		if identity.PhotoURL != "" {
			host.Image = identity.PhotoURL
		}
	}
	return host
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
