package main

import (
	"log"
	"mini_kpi_app_go/config"
	"mini_kpi_app_go/db"
	"mini_kpi_app_go/handlers"
	"mini_kpi_app_go/models"
	"mini_kpi_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Activity{}, &models.Photo{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Truncate legacy timestamp dates left over from older installs
	if migrated, err := services.MigrateNormalizeDates(db.DB); err != nil {
		log.Printf("Date migration failed: %v", err)
	} else if migrated > 0 {
		log.Printf("Normalized %d legacy activity dates", migrated)
	}

	// Shared photo pipeline
	services.InitializePhotoPipeline()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files
	e.Static("/static", "static")

	// Activity routes
	api := e.Group("/api")
	{
		api.POST("/activities", handlers.CreateActivityHandler)
		api.GET("/activities", handlers.GetActivitiesHandler)
		api.GET("/activities/:id", handlers.GetActivityHandler)
		api.PATCH("/activities/:id", handlers.UpdateActivityHandler)
		api.PUT("/activities/:id/photos", handlers.ReplacePhotosHandler)
		api.DELETE("/activities/:id", handlers.DeleteActivityHandler)

		api.GET("/metrics", handlers.MetricsHandler)

		// Report exports
		api.GET("/reports/excel", handlers.ExportExcelHandler)
		api.GET("/reports/html", handlers.ExportHTMLHandler)
		api.GET("/reports/word", handlers.ExportWordHandler)
		api.GET("/reports/pdf", handlers.ExportPDFHandler)

		// Maintenance
		api.POST("/maintenance/migrate-dates", handlers.MigrateDatesHandler)
		api.DELETE("/maintenance/activities", handlers.ClearActivitiesHandler)
	}

	// Transient photo references
	e.GET("/blobs/:id", handlers.ServeBlobHandler)
	e.DELETE("/blobs/scopes/:scope", handlers.ReleaseScopeHandler)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
