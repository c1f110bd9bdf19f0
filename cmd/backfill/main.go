// Command backfill is a one-time data repair: projects created before
// traffic tracking existed have a null last_traffic_at, which the monitor
// would otherwise never consider for deactivation. It copies updated_at
// into last_traffic_at for those rows. Safe to re-run; a second pass
// matches nothing.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	database, err := db.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	repo := db.NewRepository(database)

	affected, err := repo.BackfillTrafficTimestamps(context.Background())
	if err != nil {
		logger.Fatal("Backfill failed, transaction rolled back", zap.Error(err))
	}

	logger.Info("Backfill complete", zap.Int64("projects_updated", affected))
}
