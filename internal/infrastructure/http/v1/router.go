// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"optiretail/internal/core/daterange"
	"optiretail/internal/infrastructure/http/v1/handlers"
	"optiretail/internal/infrastructure/http/v1/middleware"
	"optiretail/pkg/logger"
)

// RouterConfig holds everything the router wires into handlers.
type RouterConfig struct {
	// BasePath prefixes every report route. Empty mounts them at the root.
	BasePath string

	// Development switches gin to debug mode.
	Development bool

	Logger       *logger.Logger
	JWTValidator middleware.JWTValidator
	Dates        *daterange.Normalizer
	Database     handlers.Pinger

	Reports handlers.ReportService
	Banking handlers.BankingService
}

// NewRouter creates and configures the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// order matters: ErrorHandler renders what Recovery and handlers push
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.Database)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group(cfg.BasePath)
	api.Use(middleware.Auth(cfg.JWTValidator))

	base := handlers.NewBaseHandler(cfg.Dates)

	handlers.NewReportsHandler(base, cfg.Reports).
		RegisterRoutes(api, middleware.RequirePermission(middleware.PermLedgerRead))

	handlers.NewBankingHandler(base, cfg.Banking).
		RegisterRoutes(api,
			middleware.RequirePermission(middleware.PermBankingRead),
			middleware.RequirePermission(middleware.PermDepositConfirm),
		)

	return router
}
