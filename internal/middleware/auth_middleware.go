package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"stayhere_backend/internal/session"
	"stayhere_backend/pkg/authn"
)

const (
	sessionKey         = "session"
	userKey            = "user"
	RefreshTokenHeader = "X-Refresh-Token"

	resumeTimeout = 10 * time.Second
)

// AuthMiddleware resumes a session from the bearer token and rejects the
// request when it does not resolve to a signed-in identity. The session is
// closed once the rest of the chain has run.
func AuthMiddleware(manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header",
			})
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), resumeTimeout)
		defer cancel()

		sess, err := manager.Resume(ctx, strings.TrimSpace(token), c.Get(RefreshTokenHeader))
		if err != nil {
			log.Printf("Resuming session failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Authentication service unavailable",
			})
		}
		defer sess.Close()

		identity := sess.Current()
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(sessionKey, sess)
		c.Locals(userKey, identity)
		return c.Next()
	}
}

// CurrentSession returns the session AuthMiddleware attached, or nil.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionKey).(*session.Session)
	return sess
}

// CurrentUser returns the identity AuthMiddleware attached, or nil.
func CurrentUser(c *fiber.Ctx) *authn.Identity {
	identity, _ := c.Locals(userKey).(*authn.Identity)
	return identity
}
