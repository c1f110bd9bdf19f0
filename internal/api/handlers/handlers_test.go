package handlers

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/config"
	"github.com/devpush/devpush/internal/db"
	"github.com/devpush/devpush/internal/metrics"
)

// One collector per test binary; prometheus registration is global.
var testCollector = metrics.NewCollector()

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	repo := db.NewRepository(sqlx.NewDb(mockDB, "postgres"))
	h := NewHandler(repo, nil, nil, testCollector, &config.Config{}, zap.NewNop())
	return h, mock
}
