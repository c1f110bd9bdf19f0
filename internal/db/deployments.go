package db

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *Repository) CreateDeployment(ctx context.Context, d *Deployment) error {
	query := `
        INSERT INTO deployments (id, project_id, commit_sha, image_tag, status, created_at, updated_at)
        VALUES (:id, :project_id, :commit_sha, :image_tag, :status, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, d)
	return err
}

func (r *Repository) GetDeploymentByID(ctx context.Context, id string) (*Deployment, error) {
	var d Deployment
	query := `SELECT * FROM deployments WHERE id = $1`
	err := r.db.GetContext(ctx, &d, query, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("deployment not found")
	}
	return &d, err
}

func (r *Repository) UpdateDeploymentStatus(ctx context.Context, id string, status DeploymentStatus) error {
	query := `UPDATE deployments SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *Repository) GetDeploymentsByProject(ctx context.Context, projectID string, limit, offset int) ([]*Deployment, error) {
	deployments := []*Deployment{}
	query := `
        SELECT * FROM deployments
        WHERE project_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &deployments, query, projectID, limit, offset)
	return deployments, err
}

func (r *Repository) CountDeploymentsByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM deployments WHERE project_id = $1`
	err := r.db.GetContext(ctx, &count, query, projectID)
	return count, err
}
