package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/middleware"
	"stayhere_backend/internal/model"
	"stayhere_backend/internal/service"
)

const dateLayout = "2006-01-02"

type BookingInput struct {
	PropertyID  string  `json:"propertyId"`
	GuestName   string  `json:"guestName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	CheckIn     string  `json:"checkIn"`
	CheckOut    string  `json:"checkOut"`
	Guests      int     `json:"guests"`
	TotalAmount float64 `json:"totalAmount"`
}

type BookingStatusInput struct {
	Status model.BookingStatus `json:"status"`
}

type BookingController struct {
	bookings   *service.BookingService
	properties *service.PropertyService
}

func NewBookingController(bookings *service.BookingService, properties *service.PropertyService) *BookingController {
	return &BookingController{bookings: bookings, properties: properties}
}

// CreateBooking books a property. The property title is copied onto the
// booking and the total is price times nights unless the client sent one.
func (bc *BookingController) CreateBooking(c *fiber.Ctx) error {
	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	checkIn, err := parseDate(input.CheckIn)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid checkIn date",
		})
	}
	checkOut, err := parseDate(input.CheckOut)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid checkOut date",
		})
	}

	res := bc.properties.GetProperty(c.UserContext(), input.PropertyID)
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
	property := res.Value

	booking := model.Booking{
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		GuestName:     strings.TrimSpace(input.GuestName),
		Email:         input.Email,
		Phone:         input.Phone,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        input.Guests,
		TotalAmount:   input.TotalAmount,
		Status:        model.BookingStatusPending,
	}
	if booking.TotalAmount == 0 && booking.Nights() > 0 {
		booking.TotalAmount = property.Price * float64(booking.Nights())
	}

	id, err := bc.bookings.CreateBooking(c.UserContext(), booking)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDates) || errors.Is(err, service.ErrInvalidBooking) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create booking",
		})
	}

	booking.ID = id
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetMyBookings lists the bookings made with the signed-in user's email.
func (bc *BookingController) GetMyBookings(c *fiber.Ctx) error {
	identity := middleware.CurrentUser(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not signed in",
		})
	}

	bookings, err := bc.bookings.ListBookingsByEmail(c.UserContext(), identity.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch bookings",
		})
	}
	return c.JSON(fiber.Map{
		"bookings": bookings,
	})
}

func (bc *BookingController) GetPropertyBookings(c *fiber.Ctx) error {
	bookings, err := bc.bookings.ListBookingsByProperty(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch bookings",
		})
	}
	return c.JSON(fiber.Map{
		"bookings": bookings,
	})
}

func (bc *BookingController) UpdateBookingStatus(c *fiber.Ctx) error {
	input := new(BookingStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	err := bc.bookings.UpdateBookingStatus(c.UserContext(), c.Params("id"), input.Status)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrBookingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update booking status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Booking status updated",
		"status":  input.Status,
	})
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Empty input
// yields the zero time so validation reports the missing field.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
