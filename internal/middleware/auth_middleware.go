package middleware

import (
	"strings"

	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// RequireAuth validates the bearer token and stores the resolved user, without
// its password hash, in the request context for downstream handlers.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			return err
		}

		identity := *user
		identity.Password = ""
		c.Locals(userLocalsKey, &identity)
		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not in allowed. It must run after
// RequireAuth.
func RequireRoles(auth service.AuthService, allowed ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(CurrentUser(c), allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(userLocalsKey).(*model.User)
	return user
}

// bearerToken extracts the token from "Authorization: Bearer <token>". A header
// without the scheme is passed through so it fails as an invalid token.
func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
