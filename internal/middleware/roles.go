package middleware

import (
	"github.com/casesync/casesync/internal/dto"
	"github.com/casesync/casesync/internal/session"
	"github.com/gofiber/fiber/v2"
)

// RequireRole gates a route on the role claim of the verified token.
// Must run after JWTProtected.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := session.CurrentActor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient role for this action",
		})
	}
}
