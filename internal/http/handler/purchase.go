package handler

import (
	"github.com/gofiber/fiber/v2"

	"pdfmarket/internal/service"
)

type purchaseRequest struct {
	DocumentID string `json:"document_id"`
}

// CreatePurchase buys a document for the authenticated caller.
func CreatePurchase(svc service.PurchaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req purchaseRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.DocumentID == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "document_id is required")
		}

		res, err := svc.Purchase(c.UserContext(), currentUserID(c), req.DocumentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// MyPurchases lists the caller's purchase history, newest first.
func MyPurchases(svc service.PurchaseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ListMine(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
