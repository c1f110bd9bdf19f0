package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
	"github.com/devpush/devpush/internal/metrics"
	"github.com/devpush/devpush/pkg/mailer"
)

// Service transitions projects between lifecycle states based on traffic
// recency. The periodic checks run as discrete batches; an error aborts
// the remaining batch and is retried whole on the next tick.
type Service struct {
	repo    *db.Repository
	logger  *zap.Logger
	metrics *metrics.Collector
	mailer  *mailer.Client
	config  config.MonitorConfig
}

func NewService(repo *db.Repository, logger *zap.Logger, collector *metrics.Collector, mail *mailer.Client, cfg config.MonitorConfig) *Service {
	return &Service{
		repo:    repo,
		logger:  logger,
		metrics: collector,
		mailer:  mail,
		config:  cfg,
	}
}

// CheckInactiveProjects deactivates active projects whose last traffic is
// older than the configured inactivity threshold.
func (s *Service) CheckInactiveProjects(ctx context.Context) error {
	scanTime := time.Now().UTC()
	cutoff := scanTime.Add(-s.config.InactiveAfter)

	projects, err := s.repo.GetStaleActiveProjects(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to scan for stale projects", zap.Error(err))
		return fmt.Errorf("failed to scan for stale projects: %w", err)
	}

	for _, project := range projects {
		if err := s.repo.DeactivateProject(ctx, project.ID, scanTime); err != nil {
			s.logger.Error("Failed to deactivate project",
				zap.Error(err),
				zap.String("project_id", project.ID),
			)
			return fmt.Errorf("failed to deactivate project %s: %w", project.ID, err)
		}

		s.metrics.RecordDeactivation()
		s.logger.Info("Project deactivated for inactivity",
			zap.String("project_id", project.ID),
			zap.String("name", project.Name),
			zap.Timep("last_traffic_at", project.LastTrafficAt),
		)

		s.notifyOwner(ctx, project, "deactivated")
	}

	return nil
}

// CheckPermanentlyDisabledProjects disables inactive projects that stayed
// deactivated past the grace period.
func (s *Service) CheckPermanentlyDisabledProjects(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.config.DisableAfter)

	projects, err := s.repo.GetExpiredInactiveProjects(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to scan for expired inactive projects", zap.Error(err))
		return fmt.Errorf("failed to scan for expired inactive projects: %w", err)
	}

	for _, project := range projects {
		if err := s.repo.DisableProject(ctx, project.ID); err != nil {
			s.logger.Error("Failed to disable project",
				zap.Error(err),
				zap.String("project_id", project.ID),
			)
			return fmt.Errorf("failed to disable project %s: %w", project.ID, err)
		}

		s.metrics.RecordDisable()
		s.logger.Info("Project permanently disabled",
			zap.String("project_id", project.ID),
			zap.String("name", project.Name),
			zap.Timep("deactivated_at", project.DeactivatedAt),
		)

		s.notifyOwner(ctx, project, "disabled")
	}

	return nil
}

// ReactivateProject brings a deactivated project back to active. Returns
// false without error when the project is not in a reactivatable state, so
// callers can treat it as a warning rather than a failure.
func (s *Service) ReactivateProject(ctx context.Context, project *db.Project) (bool, error) {
	if !project.Reactivatable() {
		s.logger.Warn("Project not in a reactivatable state",
			zap.String("project_id", project.ID),
			zap.String("status", string(project.Status)),
		)
		return false, nil
	}

	ok, err := s.repo.ReactivateProject(ctx, project.ID)
	if err != nil {
		return false, fmt.Errorf("failed to reactivate project %s: %w", project.ID, err)
	}
	if !ok {
		// Lost a race with another reactivation or a status change.
		return false, nil
	}

	project.Status = db.ProjectActive
	project.DeactivatedAt = nil
	project.ReactivationCount++

	s.metrics.RecordReactivation()
	s.logger.Info("Project reactivated",
		zap.String("project_id", project.ID),
		zap.String("name", project.Name),
		zap.Int("reactivation_count", project.ReactivationCount),
	)

	return true, nil
}

// UpdateProjectGauges refreshes the per-status project count metrics.
func (s *Service) UpdateProjectGauges(ctx context.Context) error {
	counts, err := s.repo.CountProjectsByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to count projects: %w", err)
	}

	for _, status := range []db.ProjectStatus{
		db.ProjectActive, db.ProjectInactive, db.ProjectPermanentlyDisabled, db.ProjectDeleted,
	} {
		s.metrics.SetProjectCount(string(status), counts[status])
	}
	return nil
}

// Run executes the periodic checks on the configured interval until ctx is
// cancelled. A failed pass is logged and retried whole on the next tick.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("Starting project monitor",
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Duration("inactive_after", s.config.InactiveAfter),
		zap.Duration("disable_after", s.config.DisableAfter),
	)

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	s.runPass(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping project monitor")
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Service) runPass(ctx context.Context) {
	if err := s.CheckInactiveProjects(ctx); err != nil {
		s.logger.Error("Inactivity check failed", zap.Error(err))
	}
	if err := s.CheckPermanentlyDisabledProjects(ctx); err != nil {
		s.logger.Error("Permanent-disable check failed", zap.Error(err))
	}
	if err := s.UpdateProjectGauges(ctx); err != nil {
		s.logger.Error("Failed to update project gauges", zap.Error(err))
	}
}

// notifyOwner emails the project owner about a lifecycle transition.
// Notification failures are logged and never abort the batch.
func (s *Service) notifyOwner(ctx context.Context, project *db.Project, transition string) {
	if !s.mailer.Enabled() {
		return
	}

	owner, err := s.repo.GetUserByID(ctx, project.UserID)
	if err != nil {
		s.logger.Warn("Failed to look up project owner for notification",
			zap.Error(err),
			zap.String("project_id", project.ID),
		)
		return
	}

	switch transition {
	case "deactivated":
		err = s.mailer.SendProjectDeactivated(ctx, owner.Email, project.Name)
	case "disabled":
		err = s.mailer.SendProjectDisabled(ctx, owner.Email, project.Name)
	}

	s.metrics.RecordEmailSent("project_"+transition, err == nil)
	if err != nil {
		s.logger.Warn("Failed to send notification email",
			zap.Error(err),
			zap.String("project_id", project.ID),
			zap.String("to", owner.Email),
		)
	}
}
