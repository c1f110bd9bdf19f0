package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/db"
)

type pushEvent struct {
	Ref        string `json:"ref"`
	After      string `json:"after"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// GithubWebhook receives push events from GitHub and records a queued
// deployment for the matching project.
func (h *Handler) GithubWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if !verifySignature(body, c.GetHeader("X-Hub-Signature-256"), h.config.GitHub.WebhookSecret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	if c.GetHeader("X-GitHub-Event") != "push" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	var event pushEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	project, err := h.repo.GetProjectByRepo(c.Request.Context(), event.Repository.FullName)
	if err != nil {
		// Pushes to repos without a project are expected; the app is
		// installed org-wide.
		c.JSON(http.StatusOK, gin.H{"status": "no project"})
		return
	}
	c.Set("project_id", project.ID)
	c.Set("subdomain", project.Subdomain)

	now := time.Now().UTC()
	deployment := &db.Deployment{
		ID:        uuid.New().String(),
		ProjectID: project.ID,
		CommitSHA: event.After,
		Status:    db.DeploymentQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.CreateDeployment(c.Request.Context(), deployment); err != nil {
		h.logger.Error("Failed to record deployment",
			zap.Error(err),
			zap.String("project_id", project.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record deployment"})
		return
	}

	h.metrics.RecordDeployment(string(db.DeploymentQueued))
	h.logger.Info("Deployment queued from push",
		zap.String("project_id", project.ID),
		zap.String("repo", event.Repository.FullName),
		zap.String("commit", event.After),
		zap.String("ref", event.Ref),
	)

	c.JSON(http.StatusAccepted, deployment)
}

func verifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
