package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/db"
)

type deploymentStatusRequest struct {
	Status db.DeploymentStatus `json:"status" binding:"required,oneof=building running failed"`
}

// UpdateDeploymentStatus is the build pipeline callback, invoked as a
// deployment moves through building, running or failed.
func (h *Handler) UpdateDeploymentStatus(c *gin.Context) {
	var req deploymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deployment, err := h.repo.GetDeploymentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deployment not found"})
		return
	}
	c.Set("project_id", deployment.ProjectID)

	if err := h.repo.UpdateDeploymentStatus(c.Request.Context(), deployment.ID, req.Status); err != nil {
		h.logger.Error("Failed to update deployment status",
			zap.Error(err),
			zap.String("deployment_id", deployment.ID),
			zap.String("project_id", deployment.ProjectID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deployment"})
		return
	}

	h.metrics.RecordDeployment(string(req.Status))
	c.JSON(http.StatusOK, gin.H{
		"id":         deployment.ID,
		"project_id": deployment.ProjectID,
		"status":     req.Status,
	})
}
