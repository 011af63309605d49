package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"pdfmarket/internal/http/middleware"
	"pdfmarket/internal/model"
	"pdfmarket/internal/service"
)

// Services bundles the use-case services the HTTP surface exposes.
type Services struct {
	Auth      service.AuthService
	Documents service.DocumentService
	Purchases service.PurchaseService
	Admin     service.AdminService
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app. Handlers
// stay thin; every decision lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, verifier middleware.TokenVerifier, svcs Services) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/register", Register(svcs.Auth))
	app.Post("/auth/login", Login(svcs.Auth))

	auth := middleware.RequireAuth(verifier)

	app.Get("/documents", BrowseDocuments(svcs.Documents))
	app.Post("/documents", auth, UploadDocument(svcs.Documents))
	// Registered before /documents/:id so "mine" is not taken as an id.
	app.Get("/documents/mine", auth, MyUploads(svcs.Documents))
	app.Get("/documents/:id", GetDocument(svcs.Documents))
	app.Put("/documents/:id", auth, UpdateDocument(svcs.Documents))
	app.Delete("/documents/:id", auth, DeactivateDocument(svcs.Documents))
	app.Get("/documents/:id/download", auth, DownloadDocument(svcs.Documents))

	app.Post("/purchases", auth, CreatePurchase(svcs.Purchases))
	app.Get("/purchases/my", auth, MyPurchases(svcs.Purchases))

	admin := app.Group("/admin", auth, middleware.RequireRole(model.RoleAdmin))
	admin.Get("/users", AdminListUsers(svcs.Admin))
	admin.Patch("/users/:id", AdminUpdateUser(svcs.Admin))
	admin.Post("/users/:id/password", AdminResetPassword(svcs.Admin))
	admin.Get("/stats", AdminPlatformStats(svcs.Admin))
	admin.Get("/documents", AdminListDocuments(svcs.Admin))
	admin.Delete("/documents/:id", AdminDeleteDocument(svcs.Admin))
}
