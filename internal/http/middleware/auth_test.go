package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmarket/internal/config"
	"pdfmarket/internal/token"
)

func newTestIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	iss, err := token.NewIssuer(config.JWTConfig{Secret: "test-secret", Issuer: "pdfmarket", TTLMin: 5})
	require.NoError(t, err)
	return iss
}

func TestRequireAuth(t *testing.T) {
	iss := newTestIssuer(t)

	app := fiber.New()
	app.Use(RequireAuth(iss))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":   c.Locals(UserIDLocalKey),
			"name": c.Locals(UserNameLocalKey),
			"role": c.Locals(UserRoleLocalKey),
		})
	})

	t.Run("valid token passes identity through", func(t *testing.T) {
		tok, err := iss.Issue("u1", "alice", "user")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Basic abc")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRole(t *testing.T) {
	iss := newTestIssuer(t)

	app := fiber.New()
	app.Use(RequireAuth(iss))
	app.Get("/admin", RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run("allowed role", func(t *testing.T) {
		tok, err := iss.Issue("a1", "root", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("wrong role", func(t *testing.T) {
		tok, err := iss.Issue("u1", "alice", "user")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
