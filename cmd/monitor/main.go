package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
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
	if err := cfg.ValidateMonitor(); err != nil {
		log.Fatalf("Invalid monitor config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	database, err := db.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	repo := db.NewRepository(database)
	collector := metrics.NewCollector()
	mail := mailer.NewClient(cfg.Mailer)

	mon := monitor.NewService(repo, logger, collector, mail, cfg.Monitor)

	ctx, cancel := context.WithCancel(context.Background())
	go mon.Run(ctx)

	logger.Info("Monitor started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down monitor...")
	cancel()
	logger.Info("Monitor exited")
}
