package db

import (
	"context"
	"database/sql"
)

// GetInstallation returns the persisted installation record, or nil when
// no record exists yet.
func (r *Repository) GetInstallation(ctx context.Context, installationID int64) (*GithubInstallation, error) {
	var inst GithubInstallation
	query := `SELECT * FROM github_installations WHERE installation_id = $1`
	err := r.db.GetContext(ctx, &inst, query, installationID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// UpsertInstallation inserts the record or, when the installation already
// exists, overwrites its token columns. Token and expiry always travel
// together through this statement.
func (r *Repository) UpsertInstallation(ctx context.Context, inst *GithubInstallation) error {
	query := `
        INSERT INTO github_installations (
            installation_id, token, token_expires_at, created_at, updated_at
        ) VALUES (
            :installation_id, :token, :token_expires_at, NOW(), NOW()
        )
        ON CONFLICT (installation_id) DO UPDATE SET
            token = EXCLUDED.token,
            token_expires_at = EXCLUDED.token_expires_at,
            updated_at = NOW()`

	_, err := r.db.NamedExecContext(ctx, query, inst)
	return err
}
