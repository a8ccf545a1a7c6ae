package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coderRohan123/tempdescription/internal/api"
	"github.com/coderRohan123/tempdescription/internal/config"
	"github.com/coderRohan123/tempdescription/internal/logger"
	"github.com/coderRohan123/tempdescription/internal/repository"
	"github.com/coderRohan123/tempdescription/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(&logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		File:     cfg.Log.File,
		FileOnly: cfg.Log.FileOnly,
	})
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	if cfg.Gemini.APIKey == "" {
		appLogger.Warn("GEMINI_API_KEY is not set; generation requests will fail")
	}
	if cfg.Auth.JWTSecret == "" {
		appLogger.Fatal("JWT_SECRET must be set")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	generationRepo := repository.NewGenerationRepository(db)

	// Initialize services
	geminiService := service.NewGeminiService(&service.GeminiConfig{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	})
	historyService := service.NewHistoryService(generationRepo)
	authService := service.NewAuthService(&service.AuthConfig{
		JWTSecret:       cfg.Auth.JWTSecret,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}, userRepo, tokenRepo)

	// Setup router
	router := api.SetupRouter(appLogger, &cfg.Server, geminiService, historyService, authService)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
