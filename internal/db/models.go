package db

import (
	"database/sql"
	"time"
)

type ProjectStatus string

const (
	ProjectActive              ProjectStatus = "active"
	ProjectInactive            ProjectStatus = "inactive"
	ProjectPermanentlyDisabled ProjectStatus = "permanently_disabled"
	ProjectDeleted             ProjectStatus = "deleted"
)

type DeploymentStatus string

const (
	DeploymentQueued   DeploymentStatus = "queued"
	DeploymentBuilding DeploymentStatus = "building"
	DeploymentRunning  DeploymentStatus = "running"
	DeploymentFailed   DeploymentStatus = "failed"
)

type Project struct {
	ID                string        `json:"id" db:"id"`
	UserID            string        `json:"-" db:"user_id"`
	Name              string        `json:"name" db:"name"`
	Subdomain         string        `json:"subdomain" db:"subdomain"`
	RepoFullName      string        `json:"repo_full_name" db:"repo_full_name"`
	InstallationID    int64         `json:"installation_id" db:"installation_id"`
	Status            ProjectStatus `json:"status" db:"status"`
	LastTrafficAt     *time.Time    `json:"last_traffic_at" db:"last_traffic_at"`
	DeactivatedAt     *time.Time    `json:"deactivated_at" db:"deactivated_at"`
	ReactivationCount int           `json:"reactivation_count" db:"reactivation_count"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// Reactivatable reports whether the project can transition back to active.
func (p *Project) Reactivatable() bool {
	return p.Status == ProjectInactive || p.Status == ProjectPermanentlyDisabled
}

// GithubInstallation holds the per-installation access token issued by the
// GitHub API. A record either has no token at all or a token together with
// its expiry; the two columns are never written independently.
type GithubInstallation struct {
	InstallationID int64          `json:"installation_id" db:"installation_id"`
	Token          sql.NullString `json:"-" db:"token"`
	TokenExpiresAt *time.Time     `json:"token_expires_at" db:"token_expires_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// SetToken stores a freshly issued token with its expiry.
func (i *GithubInstallation) SetToken(token string, expiresAt time.Time) {
	i.Token = sql.NullString{String: token, Valid: true}
	i.TokenExpiresAt = &expiresAt
}

// TokenValid reports whether the stored token can still be used at the
// given instant.
func (i *GithubInstallation) TokenValid(now time.Time) bool {
	return i.Token.Valid && i.Token.String != "" && i.TokenExpiresAt != nil && i.TokenExpiresAt.After(now)
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Deployment struct {
	ID        string           `json:"id" db:"id"`
	ProjectID string           `json:"project_id" db:"project_id"`
	CommitSHA string           `json:"commit_sha" db:"commit_sha"`
	ImageTag  string           `json:"image_tag" db:"image_tag"`
	Status    DeploymentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}
