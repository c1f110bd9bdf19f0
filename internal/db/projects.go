package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Project operations
func (r *Repository) CreateProject(ctx context.Context, p *Project) error {
	query := `
        INSERT INTO projects (
            id, user_id, name, subdomain, repo_full_name, installation_id,
            status, last_traffic_at, deactivated_at, reactivation_count,
            created_at, updated_at
        ) VALUES (
            :id, :user_id, :name, :subdomain, :repo_full_name, :installation_id,
            :status, :last_traffic_at, :deactivated_at, :reactivation_count,
            :created_at, :updated_at
        )`

	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *Repository) GetProject(ctx context.Context, id, userID string) (*Project, error) {
	var p Project
	query := `SELECT * FROM projects WHERE id = $1 AND user_id = $2 AND status != 'deleted'`
	err := r.db.GetContext(ctx, &p, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found")
	}
	return &p, err
}

func (r *Repository) GetProjectBySubdomain(ctx context.Context, subdomain string) (*Project, error) {
	var p Project
	query := `SELECT * FROM projects WHERE subdomain = $1 AND status != 'deleted'`
	err := r.db.GetContext(ctx, &p, query, subdomain)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found")
	}
	return &p, err
}

func (r *Repository) GetProjectByRepo(ctx context.Context, repoFullName string) (*Project, error) {
	var p Project
	query := `SELECT * FROM projects WHERE repo_full_name = $1 AND status != 'deleted'`
	err := r.db.GetContext(ctx, &p, query, repoFullName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found")
	}
	return &p, err
}

func (r *Repository) GetProjectsByUser(ctx context.Context, userID string, limit, offset int) ([]*Project, error) {
	projects := []*Project{}
	query := `
        SELECT * FROM projects
        WHERE user_id = $1 AND status != 'deleted'
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &projects, query, userID, limit, offset)
	return projects, err
}

func (r *Repository) CountProjectsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM projects WHERE user_id = $1 AND status != 'deleted'`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *Repository) UpdateProject(ctx context.Context, p *Project) error {
	query := `
        UPDATE projects SET
            name = :name,
            subdomain = :subdomain,
            repo_full_name = :repo_full_name,
            installation_id = :installation_id,
            updated_at = :updated_at
        WHERE id = :id AND user_id = :user_id`

	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *Repository) SoftDeleteProject(ctx context.Context, id, userID string) error {
	query := `
        UPDATE projects SET status = 'deleted', updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND status != 'deleted'`
	_, err := r.db.ExecContext(ctx, query, id, userID)
	return err
}

// Monitoring scans
func (r *Repository) GetStaleActiveProjects(ctx context.Context, cutoff time.Time) ([]*Project, error) {
	projects := []*Project{}
	query := `
        SELECT * FROM projects
        WHERE status = 'active'
        AND last_traffic_at IS NOT NULL
        AND last_traffic_at < $1`

	err := r.db.SelectContext(ctx, &projects, query, cutoff)
	return projects, err
}

func (r *Repository) GetExpiredInactiveProjects(ctx context.Context, cutoff time.Time) ([]*Project, error) {
	projects := []*Project{}
	query := `
        SELECT * FROM projects
        WHERE status = 'inactive'
        AND deactivated_at IS NOT NULL
        AND deactivated_at < $1`

	err := r.db.SelectContext(ctx, &projects, query, cutoff)
	return projects, err
}

func (r *Repository) DeactivateProject(ctx context.Context, id string, at time.Time) error {
	query := `
        UPDATE projects SET status = 'inactive', deactivated_at = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'active'`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

func (r *Repository) DisableProject(ctx context.Context, id string) error {
	query := `
        UPDATE projects SET status = 'permanently_disabled', updated_at = NOW()
        WHERE id = $1 AND status = 'inactive'`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ReactivateProject flips a deactivated project back to active. The status
// guard in the WHERE clause makes concurrent reactivations increment the
// counter at most once.
func (r *Repository) ReactivateProject(ctx context.Context, id string) (bool, error) {
	query := `
        UPDATE projects SET
            status = 'active',
            deactivated_at = NULL,
            reactivation_count = reactivation_count + 1,
            updated_at = NOW()
        WHERE id = $1 AND status IN ('inactive', 'permanently_disabled')`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *Repository) TouchProjectTraffic(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE projects SET last_traffic_at = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

func (r *Repository) CountProjectsByStatus(ctx context.Context) (map[ProjectStatus]int, error) {
	rows := []struct {
		Status ProjectStatus `db:"status"`
		Count  int           `db:"count"`
	}{}
	query := `SELECT status, COUNT(*) AS count FROM projects GROUP BY status`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[ProjectStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// BackfillTrafficTimestamps sets last_traffic_at from updated_at for
// projects that predate traffic tracking. Runs in its own transaction and
// rolls back on failure; a re-run matches no rows.
func (r *Repository) BackfillTrafficTimestamps(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET last_traffic_at = updated_at WHERE last_traffic_at IS NULL`)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}
