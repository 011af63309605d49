package handler

import (
	"github.com/gofiber/fiber/v2"

	"pdfmarket/internal/http/middleware"
	"pdfmarket/internal/service"
)

type registerRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// Register creates a new account and returns its first access token.
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.UserName == "" || req.Email == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "user_name, email and password are required")
		}

		res, err := svc.Register(c.UserContext(), req.UserName, req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Login authenticates by username or email.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Handle == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "handle and password are required")
		}

		res, err := svc.Login(c.UserContext(), req.Handle, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// currentUserID reads the authenticated caller's id stored by RequireAuth.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.UserIDLocalKey).(string)
	return id
}
