package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"pdfmarket/internal/config"
	"pdfmarket/internal/database"
	"pdfmarket/internal/database/migration"
	handlers "pdfmarket/internal/http/handler"
	"pdfmarket/internal/http/middleware"
	"pdfmarket/internal/otel"
	"pdfmarket/internal/repository/postgres"
	"pdfmarket/internal/service"
	"pdfmarket/internal/storage"
	"pdfmarket/internal/token"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	loc := time.UTC

	// Tracing first so the DB driver and HTTP clients pick up the provider.
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if err := migration.SeedAdmin(ctx, db, loc, cfg.Seed); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	issuer, err := token.NewIssuer(cfg.JWT)
	if err != nil {
		log.Fatalf("failed to initialize token issuer: %v", err)
	}

	// Repositories share the pooled connection; the purchase path gets its own
	// transactional unit.
	accountRepo := postgres.NewAccountPostgres(db)
	documentRepo := postgres.NewDocumentPostgres(db)
	purchaseRepo := postgres.NewPurchasePostgres(db)
	atomic := postgres.NewAtomic(db)

	entitlement := service.NewEntitlementChecker(purchaseRepo)
	svcs := handlers.Services{
		Auth:      service.NewAuthService(accountRepo, issuer, cfg.Market.StartingPoints),
		Documents: service.NewDocumentService(objStore, documentRepo, accountRepo, entitlement, cfg.Market.UploadRewardPoints),
		Purchases: service.NewPurchaseService(documentRepo, purchaseRepo, atomic),
		Admin:     service.NewAdminService(accountRepo, documentRepo, purchaseRepo, objStore),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to initialize prometheus middleware: %v", err)
	}
	app.Use(promMiddleware.Handler())

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, issuer, svcs)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
