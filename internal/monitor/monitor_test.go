package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
	"github.com/devpush/devpush/internal/metrics"
	"github.com/devpush/devpush/pkg/mailer"
)

// One collector per test binary; prometheus registration is global.
var testCollector = metrics.NewCollector()

var projectCols = []string{
	"id", "user_id", "name", "subdomain", "repo_full_name", "installation_id",
	"status", "last_traffic_at", "deactivated_at", "reactivation_count",
	"created_at", "updated_at",
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	repo := db.NewRepository(sqlx.NewDb(mockDB, "postgres"))
	cfg := config.MonitorConfig{
		InactiveAfter: 24 * time.Hour,
		DisableAfter:  30 * 24 * time.Hour,
		CheckInterval: time.Minute,
	}
	// Unconfigured mailer: notifications are a no-op in these tests.
	return NewService(repo, zap.NewNop(), testCollector, mailer.NewClient(config.MailerConfig{}), cfg), mock
}

func staleProjectRow(id string, status db.ProjectStatus, lastTraffic, deactivated *time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(projectCols).
		AddRow(id, "user-1", "hello-app", "hello", "alice/hello-app", int64(42),
			string(status), lastTraffic, deactivated, 0, now, now)
}

func TestCheckInactiveProjects_DeactivatesStale(t *testing.T) {
	svc, mock := newTestService(t)

	stale := time.Now().Add(-48 * time.Hour)
	mock.ExpectQuery("SELECT \\* FROM projects").
		WillReturnRows(staleProjectRow("proj-1", db.ProjectActive, &stale, nil))
	mock.ExpectExec("UPDATE projects SET status = 'inactive'").
		WithArgs("proj-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.CheckInactiveProjects(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInactiveProjects_AbortsBatchOnError(t *testing.T) {
	svc, mock := newTestService(t)

	stale := time.Now().Add(-48 * time.Hour)
	rows := staleProjectRow("proj-1", db.ProjectActive, &stale, nil)
	now := time.Now()
	rows.AddRow("proj-2", "user-1", "other-app", "other", "alice/other-app", int64(42),
		string(db.ProjectActive), &stale, nil, 0, now, now)

	mock.ExpectQuery("SELECT \\* FROM projects").WillReturnRows(rows)
	mock.ExpectExec("UPDATE projects SET status = 'inactive'").
		WithArgs("proj-1", sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := svc.CheckInactiveProjects(context.Background())
	require.Error(t, err)
	// proj-2 was never attempted; the whole batch retries next tick.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckPermanentlyDisabledProjects(t *testing.T) {
	svc, mock := newTestService(t)

	deactivated := time.Now().Add(-60 * 24 * time.Hour)
	mock.ExpectQuery("SELECT \\* FROM projects").
		WillReturnRows(staleProjectRow("proj-1", db.ProjectInactive, nil, &deactivated))
	mock.ExpectExec("UPDATE projects SET status = 'permanently_disabled'").
		WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.CheckPermanentlyDisabledProjects(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactivateProject_ActiveReturnsFalse(t *testing.T) {
	svc, _ := newTestService(t)

	project := &db.Project{ID: "proj-1", Status: db.ProjectActive, ReactivationCount: 2}

	ok, err := svc.ReactivateProject(context.Background(), project)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, project.ReactivationCount)
	assert.Equal(t, db.ProjectActive, project.Status)
}

func TestReactivateProject_DeletedReturnsFalse(t *testing.T) {
	svc, _ := newTestService(t)

	project := &db.Project{ID: "proj-1", Status: db.ProjectDeleted}

	ok, err := svc.ReactivateProject(context.Background(), project)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReactivateProject_InactiveTransitions(t *testing.T) {
	svc, mock := newTestService(t)

	deactivated := time.Now().Add(-time.Hour)
	project := &db.Project{
		ID:                "proj-1",
		Status:            db.ProjectInactive,
		DeactivatedAt:     &deactivated,
		ReactivationCount: 1,
	}

	mock.ExpectExec("UPDATE projects SET").
		WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := svc.ReactivateProject(context.Background(), project)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, db.ProjectActive, project.Status)
	assert.Nil(t, project.DeactivatedAt)
	assert.Equal(t, 2, project.ReactivationCount)
}

func TestReactivateProject_PermanentlyDisabledTransitions(t *testing.T) {
	svc, mock := newTestService(t)

	project := &db.Project{ID: "proj-1", Status: db.ProjectPermanentlyDisabled}

	mock.ExpectExec("UPDATE projects SET").
		WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := svc.ReactivateProject(context.Background(), project)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, db.ProjectActive, project.Status)
	assert.Equal(t, 1, project.ReactivationCount)
}

func TestReactivateProject_RaceLost(t *testing.T) {
	svc, mock := newTestService(t)

	project := &db.Project{ID: "proj-1", Status: db.ProjectInactive}

	mock.ExpectExec("UPDATE projects SET").
		WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := svc.ReactivateProject(context.Background(), project)
	require.NoError(t, err)
	assert.False(t, ok)
	// In-memory state untouched when the row no longer qualifies.
	assert.Equal(t, db.ProjectInactive, project.Status)
	assert.Equal(t, 0, project.ReactivationCount)
}
