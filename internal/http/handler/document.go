package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pdfmarket/internal/repository"
	"pdfmarket/internal/service"
)

type updateDocumentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PricePoints int      `json:"price_points"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"is_active"`
}

// BrowseDocuments lists active documents matching the query filters.
func BrowseDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := repository.BrowseFilter{
			Query: c.Query("query"),
			Tag:   c.Query("tag"),
		}
		var err error
		if filter.MinPrice, err = optionalIntQuery(c, "min_price"); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "invalid min_price")
		}
		if filter.MaxPrice, err = optionalIntQuery(c, "max_price"); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "invalid max_price")
		}

		res, err := svc.Browse(c.UserContext(), filter)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns a single document's public details.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Details(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument accepts a multipart upload (field name: file) with metadata
// fields title, description, price_points and tags (comma-separated).
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		price := 0
		if raw := c.FormValue("price_points"); raw != "" {
			price, err = strconv.Atoi(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "invalid price_points")
			}
		}

		req := service.UploadRequest{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			PricePoints: price,
			Tags:        splitTags(c.FormValue("tags")),
		}

		doc, err := svc.Upload(c.UserContext(), currentUserID(c), req, f, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument applies a metadata edit by the uploader.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		doc, err := svc.Update(c.UserContext(), currentUserID(c), c.Params("id"), service.UpdateRequest{
			Title:       req.Title,
			Description: req.Description,
			PricePoints: req.PricePoints,
			Tags:        req.Tags,
			IsActive:    req.IsActive,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeactivateDocument hides the uploader's document from the catalog.
func DeactivateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Deactivate(c.UserContext(), currentUserID(c), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// MyUploads lists the caller's own documents, inactive included.
func MyUploads(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.ListByUploader(c.UserContext(), currentUserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadDocument streams the file to an entitled caller.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := svc.Download(c.UserContext(), currentUserID(c), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, file.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)
		if file.Size > 0 {
			return c.SendStream(file.Content, int(file.Size))
		}
		return c.SendStream(file.Content)
	}
}

func optionalIntQuery(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
