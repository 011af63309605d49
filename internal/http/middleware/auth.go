package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"pdfmarket/internal/token"
)

const (
	// UserIDLocalKey is the key under which RequireAuth stores the caller's id.
	UserIDLocalKey = "user_id"
	// UserNameLocalKey is the key under which RequireAuth stores the caller's name.
	UserNameLocalKey = "user_name"
	// UserRoleLocalKey is the key under which RequireAuth stores the caller's role.
	UserRoleLocalKey = "user_role"
)

// TokenVerifier turns a raw bearer token into an authenticated identity.
// Satisfied by *token.Issuer.
type TokenVerifier interface {
	Verify(raw string) (*token.Identity, error)
}

// RequireAuth validates the Authorization bearer token and stores the caller's
// id, name and role in context locals. Requests without a valid token get 401.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		id, err := verifier.Verify(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDLocalKey, id.UserID)
		c.Locals(UserNameLocalKey, id.UserName)
		c.Locals(UserRoleLocalKey, id.Role)

		return c.Next()
	}
}

// RequireRole forbids callers whose role, stored by RequireAuth, is not in the
// allowed set.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(UserRoleLocalKey).(string)
		if !allowed[role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden")
		}
		return c.Next()
	}
}
