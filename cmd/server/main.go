package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/grocertrack/grocertrack/internal/config"
	"github.com/grocertrack/grocertrack/internal/database"
	"github.com/grocertrack/grocertrack/internal/handlers"
	"github.com/grocertrack/grocertrack/internal/middleware"
	"github.com/grocertrack/grocertrack/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    12 << 20,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Initialize storage for receipt images; the upload path degrades to
	// parse-only when storage is not configured.
	var storageService *services.StorageService
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		storageService, err = services.NewStorageService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize storage service: %v", err)
			storageService = nil
		} else if err := storageService.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure S3 bucket exists: %v", err)
		}
	} else {
		log.Println("S3 credentials not configured, receipt image upload disabled")
	}

	// Initialize server-side OCR for the upload path
	var ocrService *services.OCRService
	if cfg.OCREnabled {
		ocrService, err = services.NewOCRService()
		if err != nil {
			log.Printf("Warning: Failed to initialize OCR service: %v", err)
			ocrService = nil
		} else {
			defer ocrService.Close()
		}
	}

	// Create handler with dependencies
	h := handlers.New(db, cfg, storageService, ocrService)

	// Sweep expired price watches on startup
	go func() {
		swept, err := db.DeactivateExpiredPriceWatches(context.Background())
		if err != nil {
			log.Printf("Warning: Failed to sweep expired price watches: %v", err)
			return
		}
		if swept > 0 {
			log.Printf("Deactivated %d expired price watch(es)", swept)
		}
	}()

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Get("/me", middleware.AuthRequired(cfg), h.Me)

	// Scan routes (authenticated)
	scan := api.Group("/scan", middleware.AuthRequired(cfg))
	scan.Post("/parse", h.ParseScan)
	scan.Post("/upload", h.UploadScan)

	// Receipt routes (authenticated)
	receipts := api.Group("/receipts", middleware.AuthRequired(cfg))
	receipts.Post("/", h.CreateReceipt)
	receipts.Get("/", h.ListReceipts)
	receipts.Get("/:id", h.GetReceipt)
	receipts.Put("/:id", h.UpdateReceipt)
	receipts.Delete("/:id", h.DeleteReceipt)
	receipts.Put("/items/:itemId/price-track", h.SetItemPriceTrack)

	// Analytics routes (authenticated)
	analytics := api.Group("/analytics", middleware.AuthRequired(cfg))
	analytics.Get("/spending", h.GetSpendingSummary)
	analytics.Get("/categories", h.GetCategoryBreakdown)
	analytics.Get("/stores", h.GetTopStores)

	// Price watch routes (authenticated)
	watches := api.Group("/price-watches", middleware.AuthRequired(cfg))
	watches.Get("/", h.ListPriceWatches)
	watches.Delete("/:id", h.DeactivatePriceWatch)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
