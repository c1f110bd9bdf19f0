package github

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/db"
	"github.com/devpush/devpush/internal/metrics"
)

// TokenIssuer is the slice of the GitHub client the manager needs.
type TokenIssuer interface {
	CreateInstallationToken(ctx context.Context, installationID int64) (*InstallationToken, error)
}

// TokenManager hands out installation access tokens, refreshing them
// against the GitHub API when the persisted one is missing or expired.
type TokenManager struct {
	repo    *db.Repository
	issuer  TokenIssuer
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewTokenManager(repo *db.Repository, issuer TokenIssuer, logger *zap.Logger, collector *metrics.Collector) *TokenManager {
	return &TokenManager{
		repo:    repo,
		issuer:  issuer,
		logger:  logger,
		metrics: collector,
	}
}

// GetOrRefresh returns the installation record with a usable token. The
// record is created on first use. Whether or not a refresh happened, the
// record is upserted before returning, so the caller always observes
// committed state. Refresh failures propagate; retry policy belongs to
// the caller.
func (m *TokenManager) GetOrRefresh(ctx context.Context, installationID int64) (*db.GithubInstallation, error) {
	inst, err := m.repo.GetInstallation(ctx, installationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load installation %d: %w", installationID, err)
	}
	if inst == nil {
		inst = &db.GithubInstallation{InstallationID: installationID}
	}

	now := time.Now().UTC()
	if !inst.TokenValid(now) {
		issued, err := m.issuer.CreateInstallationToken(ctx, installationID)
		if err != nil {
			m.metrics.RecordTokenRefresh(false)
			return nil, fmt.Errorf("failed to refresh token for installation %d: %w", installationID, err)
		}

		inst.SetToken(issued.Token, issued.ExpiresAt.UTC())

		m.metrics.RecordTokenRefresh(true)
		m.logger.Info("Refreshed installation token",
			zap.Int64("installation_id", installationID),
			zap.Timep("expires_at", inst.TokenExpiresAt),
		)
	}

	if err := m.repo.UpsertInstallation(ctx, inst); err != nil {
		return nil, fmt.Errorf("failed to persist installation %d: %w", installationID, err)
	}

	return inst, nil
}
