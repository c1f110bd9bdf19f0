package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Ping() error {
	return r.db.Ping()
}

// SchemaVersion reads the migration state recorded by golang-migrate.
// A dirty version means a migration was interrupted mid-flight.
func (r *Repository) SchemaVersion(ctx context.Context) (version uint, dirty bool, err error) {
	var row struct {
		Version uint `db:"version"`
		Dirty   bool `db:"dirty"`
	}
	if err := r.db.GetContext(ctx, &row, `SELECT version, dirty FROM schema_migrations`); err != nil {
		return 0, false, err
	}
	return row.Version, row.Dirty, nil
}
