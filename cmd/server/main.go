package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/consentio/tcf-consent-api/internal/declarations"
	"github.com/consentio/tcf-consent-api/internal/preferences"
	"github.com/consentio/tcf-consent-api/internal/router"
	"github.com/consentio/tcf-consent-api/internal/system/config"
	"github.com/consentio/tcf-consent-api/internal/system/database"
	"github.com/consentio/tcf-consent-api/internal/system/database/provider"
	"github.com/consentio/tcf-consent-api/internal/system/log"
	"github.com/consentio/tcf-consent-api/internal/system/stores"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting TCF Consent API Server...")

	// Load configuration
	// Priority: CONFIG_PATH env var > repository/conf/deployment.yaml > cmd/server/repository/conf/deployment.yaml
	configPath := os.Getenv("CONFIG_PATH")

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Set log level from config
	log.SetLevel(cfg.Logging.Level)
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.Initialize(&cfg.Database.Consent)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	// Verify database connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("Database health check failed")
	}

	logger.Info("Database connection established successfully")

	// Initialize the DB provider and client
	provider.InitDBProvider(db, cfg.Database.Consent.Type)

	dbClient, err := provider.GetDBProvider().GetConsentDBClient()
	if err != nil {
		logger.WithError(err).Fatal("Failed to get consent DB client")
	}

	// Initialize stores
	registry := stores.NewStoreRegistry(
		dbClient,
		declarations.NewStore(dbClient),
		declarations.NewOverrideStore(dbClient),
		preferences.NewStore(dbClient),
	)

	logger.Info("Stores initialized successfully")

	// Setup router with all feature modules
	r := router.SetupRouter(registry)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine so shutdown signals can be handled
	go func() {
		logger.WithField("address", addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	if err := provider.GetDBProviderCloser().Close(); err != nil {
		logger.WithError(err).Error("Failed to close database connections")
	}

	logger.Info("Server exited")
}
