package main

import (
	"log"

	"asset_flow_app_go/config"
	"asset_flow_app_go/db"
	"asset_flow_app_go/handlers"
	"asset_flow_app_go/middleware"
	"asset_flow_app_go/models"
	"asset_flow_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.TursoDatabaseURL, cfg.TursoAuthToken, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Contrato{}, &models.BienContrato{}, &models.Vehiculo{}, &models.Propiedad{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize file storage (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Contract routes
	contratos := e.Group("/api/contratos")
	{
		contratos.POST("", handlers.CreateContratoHandler, middleware.GeneracionRateLimiter.Middleware())
		contratos.GET("", handlers.GetContratosHandler)
		contratos.GET("/verificar/:codigo", handlers.VerificarContratoHandler, middleware.VerificacionRateLimiter.Middleware())
		contratos.GET("/:id", handlers.GetContratoHandler)
		contratos.GET("/:id/descargar", handlers.DownloadContratoHandler)
		contratos.PUT("/:id/anular", handlers.AnularContratoHandler)
		contratos.POST("/:id/documento-firmado", handlers.UploadDocumentoFirmadoHandler, middleware.UploadRateLimiter.Middleware())
		contratos.GET("/:id/documento-firmado/:tipo", handlers.DownloadDocumentoFirmadoHandler)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
