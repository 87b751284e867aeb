package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"stayhere_backend/internal/controller"
	"stayhere_backend/internal/router"
	"stayhere_backend/internal/service"
	"stayhere_backend/internal/session"
	"stayhere_backend/pkg/authn"
	"stayhere_backend/pkg/backend"
	"stayhere_backend/pkg/config"
	"stayhere_backend/pkg/cron"
	"stayhere_backend/pkg/email"
	"stayhere_backend/pkg/events"
	"stayhere_backend/pkg/seed"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Could not initialize backend:", err)
	}
	defer backend.Close()

	if cfg.Server.SeedData {
		if err := seed.SeedDestinations(ctx, client.Docs); err != nil {
			log.Printf("Seed warning: %v", err)
		}
	}

	var publisher events.Publisher
	if cfg.AMQP.URL != "" {
		publisher = events.NewAMQPPublisher(cfg.AMQP.URL)
	}

	var mailer controller.WelcomeSender
	if cfg.Email.ResendAPIKey != "" {
		emailService, err := email.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
		mailer = emailService
		log.Println("Email service initialized")

		if cfg.AMQP.URL != "" {
			go events.ConsumeBookingStatus(ctx, cfg.AMQP.URL, emailService.SendBookingStatusEmail)
		}
	}

	properties := service.NewPropertyService(client.Docs, client.Files)
	bookings := service.NewBookingService(client.Docs, publisher)
	destinations := service.NewDestinationService(client.Docs)
	dashboard := service.NewDashboardService(properties, bookings)

	scheduler, err := cron.InitDestinationCountsCron(cfg.Cron.DestinationCounts, destinations)
	if err != nil {
		log.Fatal("Could not schedule destination counts:", err)
	}
	defer scheduler.Stop()

	sessions := session.NewManager(client.Auth, authn.WithResolveTimeout(cfg.Backend.AuthResolveTimeout))

	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Refresh-Token",
	}))

	router.SetupRoutes(app, sessions, router.Controllers{
		Auth:         controller.NewAuthController(sessions, mailer),
		Properties:   controller.NewPropertyController(properties),
		Bookings:     controller.NewBookingController(bookings, properties),
		Destinations: controller.NewDestinationController(destinations),
		Dashboard:    controller.NewDashboardController(dashboard),
	})

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Server is running on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
