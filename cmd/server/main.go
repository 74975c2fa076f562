package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/api"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/champs"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/config"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/scheduler"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/storage"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.InitLogger(cfg.Logging.Level, cfg.Server.Environment); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting FRC Championship Journey Service",
		zap.String("version", api.Version),
		zap.String("environment", cfg.Server.Environment),
	)

	if cfg.TBA.AuthKey == "" {
		logger.Warn("TBA_AUTH_KEY is not set; every upstream request will fail until it is configured")
	}

	// Initialize the cache store, falling back to memory if sqlite is
	// unavailable. The cache is advisory; losing it only costs rate budget.
	var store storage.Store
	gormStore, err := storage.NewGormStore(cfg.Database.CachePath)
	if err != nil {
		logger.Warn("Failed to open sqlite cache, falling back to in-memory store",
			zap.String("path", cfg.Database.CachePath),
			zap.Error(err))
		store = storage.NewMemStore()
	} else {
		defer gormStore.Close()
		store = gormStore
		logger.Info("Cache database initialized", zap.String("path", cfg.Database.CachePath))
	}

	// Upstream client and resolver
	client := tba.NewClient(cfg.TBA, store)
	resolver := champs.NewResolver(client)

	// Initialize scheduler
	cronScheduler := scheduler.NewScheduler(cfg, client)
	if cfg.Scheduler.Enabled {
		if err := cronScheduler.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// Initialize HTTP router
	router := api.NewRouter(cfg, client, resolver, cronScheduler, store)

	// Create HTTP server
	server := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Resolution of a cold event can sit out a full rate-limit window,
		// so give responses room to finish.
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop scheduler
	cronScheduler.Stop()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
