package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/service"
	"stayhere_backend/pkg/utils/validation"
)

// UploadPropertyImage stores the "image" form file for the property and
// returns its public URL.
func (pc *PropertyController) UploadPropertyImage(c *fiber.Ctx) error {
	propertyID := c.Params("id")

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("Could not open uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}
	defer src.Close()

	url, err := pc.properties.UploadPropertyImage(c.UserContext(), propertyID, file.Filename, src, validation.ImageContentType(file))
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilename) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid filename",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": url,
	})
}

func (pc *PropertyController) DeletePropertyImage(c *fiber.Ctx) error {
	err := pc.properties.DeletePropertyImage(c.UserContext(), c.Params("id"), c.Params("name"))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"message": "Image deleted successfully",
		})
	case errors.Is(err, service.ErrInvalidFilename):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid filename",
		})
	case errors.Is(err, service.ErrImageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Could not delete image",
	})
}
