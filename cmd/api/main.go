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

	"github.com/timmy/trendmeme/internal/api"
	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/llm"
	"github.com/timmy/trendmeme/internal/logger"
	"github.com/timmy/trendmeme/internal/memegen"
	"github.com/timmy/trendmeme/internal/service"
	"github.com/timmy/trendmeme/internal/template"
)

func main() {
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer func() { _ = logger.Sync() }()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Caption providers; missing keys surface per request
	providers, err := llm.NewRegistryFromConfig(&cfg.Providers)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize caption providers")
	}

	// Template catalog, optionally shared through Redis
	var catalogOpts []template.CatalogOption
	if cfg.Cache.RedisURL != "" {
		store, err := template.NewRedisStore(cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, template catalog stays in-process")
		} else {
			defer store.Close()
			catalogOpts = append(catalogOpts, template.WithStore(store))
			appLogger.Info("Template catalog shared through Redis")
		}
	}

	memegenClient := memegen.NewClient(memegen.ClientOptions{
		BaseURL: cfg.Memegen.BaseURL,
		Timeout: cfg.Memegen.Timeout,
	})
	catalog := template.NewTemplateCatalog(memegenClient, cfg.Memegen.CatalogTTL, catalogOpts...)

	memeService := service.NewMemeService(
		catalog,
		template.NewResolver(),
		providers,
		&service.MemeConfig{ImageBaseURL: cfg.Memegen.ImageBaseURL},
	)
	trendsService := service.NewTrendsService(&cfg.Trends)
	if cfg.Trends.APIKey == "" {
		appLogger.Warn("No SerpAPI key configured, /api/trends will fail")
	}

	router := api.SetupRouter(memeService, trendsService, appLogger, &cfg.Server)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
