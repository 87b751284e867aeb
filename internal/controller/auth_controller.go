package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/middleware"
	"stayhere_backend/internal/session"
	"stayhere_backend/pkg/authn"
	"stayhere_backend/pkg/utils/validation"
)

type RegisterInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// WelcomeSender sends the greeting mail after registration.
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, email, name string) error
}

type AuthController struct {
	sessions *session.Manager
	mailer   WelcomeSender
}

// NewAuthController builds the auth handlers. mailer may be nil.
func NewAuthController(sessions *session.Manager, mailer WelcomeSender) *AuthController {
	return &AuthController{sessions: sessions, mailer: mailer}
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
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

	sess := ac.sessions.New()
	defer sess.Close()

	if err := sess.SignUp(c.UserContext(), input.Email, input.Password, input.Name); err != nil {
		return authError(c, err)
	}

	if ac.mailer != nil {
		go func(email, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := ac.mailer.SendWelcomeEmail(ctx, email, name); err != nil {
				log.Printf("Could not send welcome email to %s: %v", email, err)
			}
		}(input.Email, input.Name)
	}

	return c.Status(fiber.StatusCreated).JSON(sessionResponse(sess))
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	input := new(LoginInput)
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

	sess := ac.sessions.New()
	defer sess.Close()

	if err := sess.SignIn(c.UserContext(), input.Email, input.Password); err != nil {
		return authError(c, err)
	}

	return c.JSON(sessionResponse(sess))
}

// Refresh exchanges a refresh token for a new ID token.
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	input := new(RefreshInput)
	if err := c.BodyParser(input); err != nil || input.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	sess, err := ac.sessions.Resume(c.UserContext(), "", input.RefreshToken)
	if err != nil {
		log.Printf("Refreshing session failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Authentication service unavailable",
		})
	}
	defer sess.Close()

	if sess.Current() == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired refresh token",
		})
	}

	return c.JSON(sessionResponse(sess))
}

// Logout revokes the caller's refresh token, taken from the X-Refresh-Token
// header or the refresh_token body field. The token must belong to the
// signed-in user.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	current := middleware.CurrentUser(c)
	if current == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not signed in",
		})
	}

	refreshToken := c.Get(middleware.RefreshTokenHeader)
	if refreshToken == "" {
		input := new(RefreshInput)
		_ = c.BodyParser(input) // an empty body leaves the token unset
		refreshToken = input.RefreshToken
	}
	if refreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token is required",
		})
	}

	sess, err := ac.sessions.Resume(c.UserContext(), "", refreshToken)
	if err != nil {
		log.Printf("Resolving session for logout failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Authentication service unavailable",
		})
	}
	defer sess.Close()

	owner := sess.Current()
	if owner == nil || owner.UID != current.UID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired refresh token",
		})
	}

	if err := sess.SignOut(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not sign out",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Signed out successfully",
	})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	identity := middleware.CurrentUser(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not signed in",
		})
	}
	return c.JSON(fiber.Map{
		"user": identity,
	})
}

func sessionResponse(sess *session.Session) fiber.Map {
	idToken, refreshToken := sess.Tokens()
	return fiber.Map{
		"token":         idToken,
		"refresh_token": refreshToken,
		"user":          sess.Current(),
	}
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrCredentialsRequired),
		errors.Is(err, authn.ErrInvalidEmail),
		errors.Is(err, authn.ErrWeakPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, authn.ErrEmailExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, authn.ErrInvalidCredentials), errors.Is(err, authn.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Authentication failed",
	})
}
