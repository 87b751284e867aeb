package router

import (
	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/controller"
	"stayhere_backend/internal/middleware"
	"stayhere_backend/internal/session"
)

type Controllers struct {
	Auth         *controller.AuthController
	Properties   *controller.PropertyController
	Bookings     *controller.BookingController
	Destinations *controller.DestinationController
	Dashboard    *controller.DashboardController
}

func SetupRoutes(app *fiber.App, sessions *session.Manager, ctl Controllers) {
	api := app.Group("/api")
	requireAuth := middleware.AuthMiddleware(sessions)

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", ctl.Auth.Register)
	auth.Post("/login", ctl.Auth.Login)
	auth.Post("/refresh", ctl.Auth.Refresh)
	auth.Post("/logout", requireAuth, ctl.Auth.Logout)
	auth.Get("/me", requireAuth, ctl.Auth.Me)

	// Public Property Routes
	properties := api.Group("/properties")
	properties.Get("/", ctl.Properties.ListProperties)
	properties.Get("/featured", ctl.Properties.ListFeaturedProperties)
	properties.Get("/:id", ctl.Properties.GetProperty)

	// Protected Property Routes
	properties.Post("/", requireAuth, ctl.Properties.CreateProperty)
	properties.Patch("/:id", requireAuth, ctl.Properties.UpdateProperty)
	properties.Delete("/:id", requireAuth, ctl.Properties.DeleteProperty)
	properties.Post("/:id/images", requireAuth, ctl.Properties.UploadPropertyImage)
	properties.Delete("/:id/images/:name", requireAuth, ctl.Properties.DeletePropertyImage)
	properties.Get("/:id/bookings", requireAuth, ctl.Bookings.GetPropertyBookings)

	// Booking Routes
	bookings := api.Group("/bookings")
	bookings.Post("/", ctl.Bookings.CreateBooking)
	bookings.Get("/mine", requireAuth, ctl.Bookings.GetMyBookings)
	bookings.Patch("/:id/status", requireAuth, ctl.Bookings.UpdateBookingStatus)

	api.Get("/destinations/popular", ctl.Destinations.GetPopularDestinations)

	// Dashboard routes
	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.Get("/stats", ctl.Dashboard.GetDashboardStats)
}
