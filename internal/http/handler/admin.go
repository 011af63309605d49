package handler

import (
	"github.com/gofiber/fiber/v2"

	"pdfmarket/internal/service"
)

type updateUserRequest struct {
	Email         *string `json:"email"`
	PointsBalance *int    `json:"points_balance"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// AdminListUsers returns every account with upload and purchase counts.
func AdminListUsers(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Users(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AdminPlatformStats returns the system-wide rollup.
func AdminPlatformStats(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AdminListDocuments returns the full catalog, inactive included.
func AdminListDocuments(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Documents(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AdminDeleteDocument removes a document's bytes and metadata.
func AdminDeleteDocument(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.DeleteDocument(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdminUpdateUser applies a partial account edit (email, points balance).
func AdminUpdateUser(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		err := svc.UpdateUser(c.UserContext(), c.Params("id"), service.UpdateUserRequest{
			Email:         req.Email,
			PointsBalance: req.PointsBalance,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdminResetPassword replaces an account's password hash.
func AdminResetPassword(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "password is required")
		}

		if err := svc.ResetPassword(c.UserContext(), c.Params("id"), req.Password); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
