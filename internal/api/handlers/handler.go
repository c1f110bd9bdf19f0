package handlers

import (
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
	"github.com/devpush/devpush/internal/github"
	"github.com/devpush/devpush/internal/metrics"
	"github.com/devpush/devpush/internal/monitor"
)

type Handler struct {
	repo    *db.Repository
	tokens  *github.TokenManager
	monitor *monitor.Service
	metrics *metrics.Collector
	config  *config.Config
	logger  *zap.Logger
}

func NewHandler(repo *db.Repository, tokens *github.TokenManager, mon *monitor.Service, collector *metrics.Collector, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		repo:    repo,
		tokens:  tokens,
		monitor: mon,
		metrics: collector,
		config:  cfg,
		logger:  logger,
	}
}
