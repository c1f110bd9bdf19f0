package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/api"
	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
	"github.com/devpush/devpush/internal/github"
	"github.com/devpush/devpush/internal/metrics"
	"github.com/devpush/devpush/internal/monitor"
	"github.com/devpush/devpush/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Database connection
	database, err := db.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := db.NewRepository(database)
	collector := metrics.NewCollector()

	// GitHub App client
	privateKey, err := os.ReadFile(cfg.GitHub.PrivateKeyPath)
	if err != nil {
		logger.Fatal("Failed to read GitHub App private key", zap.Error(err))
	}
	ghClient, err := github.NewClient(cfg.GitHub, privateKey)
	if err != nil {
		logger.Fatal("Failed to create GitHub client", zap.Error(err))
	}
	tokens := github.NewTokenManager(repo, ghClient, logger, collector)

	mail := mailer.NewClient(cfg.Mailer)
	mon := monitor.NewService(repo, logger, collector, mail, cfg.Monitor)

	server := api.NewServer(cfg, repo, tokens, mon, collector, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
