package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Artotz/lead-middleware-sub001/internal/config"
	"github.com/Artotz/lead-middleware-sub001/internal/handler"
	"github.com/Artotz/lead-middleware-sub001/internal/identity"
	"github.com/Artotz/lead-middleware-sub001/internal/logger"
	"github.com/Artotz/lead-middleware-sub001/internal/repository/postgres"
	"github.com/Artotz/lead-middleware-sub001/internal/service"
)

// @title Lead & Ticket Activity API
// @version 1.0
// @description Records user actions on leads and tickets as immutable events and serves windowed activity metrics
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting activity service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	// The store handle is constructed exactly once here and injected;
	// every consumer shares this client for the life of the process.
	postgresClient, err := postgres.NewClient(ctx, &cfg.Postgres, log)
	if err != nil {
		log.Fatal("Failed to create PostgreSQL client", zap.Error(err))
	}
	defer func(postgresClient *postgres.Client) {
		if err := postgresClient.Close(); err != nil {
			log.Error("Failed to close PostgreSQL client", zap.Error(err))
		}
	}(postgresClient)

	// Initialize repository
	repo := postgres.NewRepository(postgresClient, log)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Initialize identity resolver
	resolver := identity.NewSessionResolver(&cfg.Auth)

	// Initialize activity service
	activityService := service.NewActivityService(repo, log)

	// Initialize handler
	h := handler.NewHandler(activityService, resolver, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
