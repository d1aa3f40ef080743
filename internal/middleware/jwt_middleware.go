package middleware

import (
	"strings"

	"gudang/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Context local keys set by the auth middlewares.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, returning "" when the header is absent or malformed.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthRequired rejects requests without a valid JWT. Used on every write
// endpoint and on identity-scoped reads like export and stats.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals(LocalUserID, claims["user_id"])
		c.Locals(LocalEmail, claims["email"])
		return c.Next()
	}
}

// AuthOptional resolves the identity when a valid token is present but lets
// anonymous requests through untouched. The product list uses it so a
// signed-out visitor gets an empty page instead of a 401.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				c.Locals(LocalUserID, claims["user_id"])
				c.Locals(LocalEmail, claims["email"])
			}
		}
		return c.Next()
	}
}

// Email returns the authenticated email from the request context, or ""
// when the request is anonymous.
func Email(c *fiber.Ctx) string {
	if email, ok := c.Locals(LocalEmail).(string); ok {
		return email
	}
	return ""
}
