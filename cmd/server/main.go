// Package main is the entry point for the optiretail reporting API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"optiretail/internal/config"
	"optiretail/internal/core/daterange"
	"optiretail/internal/domain/auth"
	"optiretail/internal/domain/banking"
	"optiretail/internal/domain/reports"
	"optiretail/internal/infrastructure/cache"
	v1 "optiretail/internal/infrastructure/http/v1"
	"optiretail/internal/infrastructure/storage/postgres"
	"optiretail/internal/infrastructure/storage/postgres/banking_repo"
	"optiretail/internal/infrastructure/storage/postgres/report_repo"
	"optiretail/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		Service:     "optiretail",
		Environment: cfg.AppEnv,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	defer log.Flush()

	ctx := context.Background()
	log.Infow("starting optiretail server", "env", cfg.AppEnv, "time_zone", cfg.TimeZone)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	poolCfg.TimeZone = cfg.TimeZone

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	auditService, err := postgres.NewAuditService(txManager, postgres.WithCompressThreshold(cfg.AuditCompressThreshold))
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	// --- Services ---
	reportRepo := report_repo.NewReportRepo(txManager)
	branchCache := cache.NewBranchCache(pool.Pool, reportRepo.ListBranches)
	if err := branchCache.Start(logger.WithLogger(ctx, log.WithComponent("branch_cache"))); err != nil {
		log.Fatalw("failed to start branch cache", "error", err)
	}
	defer branchCache.Stop()

	reportService := reports.NewService(
		cache.WithBranchCache(reportRepo, branchCache),
		reports.WithSignConvention(reports.ParseSignConvention(cfg.SafeExpenseSign)),
		reports.WithSlowThreshold(cfg.ReportSlowThreshold),
	)
	bankingService := banking.NewService(
		banking_repo.NewDepositRepo(txManager),
		txManager,
		auditService,
		banking.WithHistory(auditService),
	)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		BasePath:     cfg.BasePath,
		Development:  cfg.IsDevelopment(),
		Logger:       log,
		JWTValidator: jwtService,
		Dates:        daterange.New(cfg.Location()),
		Database:     pool,
		Reports:      reportService,
		Banking:      bankingService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	statsCtx, stopStats := context.WithCancel(logger.WithLogger(ctx, log.WithComponent("pgxpool")))
	defer stopStats()
	go logPoolStats(statsCtx, pool)

	go func() {
		log.Infow("server starting", "port", cfg.AppPort, "base_path", cfg.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func logPoolStats(ctx context.Context, pool *postgres.Pool) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pool.LogStats(ctx)
		}
	}
}
