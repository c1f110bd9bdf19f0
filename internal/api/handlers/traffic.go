package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type trafficHookRequest struct {
	Subdomain string `json:"subdomain" binding:"required"`
}

// TrafficHook is called by the edge proxy when a request lands on a
// project subdomain. It bumps the traffic timestamp and wakes the project
// up if the monitor had deactivated it.
func (h *Handler) TrafficHook(c *gin.Context) {
	var req trafficHookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Set("subdomain", req.Subdomain)
	project, err := h.repo.GetProjectBySubdomain(c.Request.Context(), req.Subdomain)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.Set("project_id", project.ID)

	now := time.Now().UTC()
	if err := h.repo.TouchProjectTraffic(c.Request.Context(), project.ID, now); err != nil {
		h.logger.Error("Failed to record traffic",
			zap.Error(err),
			zap.String("project_id", project.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record traffic"})
		return
	}
	h.metrics.RecordTrafficHit()

	reactivated := false
	if project.Reactivatable() {
		reactivated, err = h.monitor.ReactivateProject(c.Request.Context(), project)
		if err != nil {
			h.logger.Error("Failed to reactivate project on traffic",
				zap.Error(err),
				zap.String("project_id", project.ID),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reactivate project"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id":  project.ID,
		"status":      project.Status,
		"reactivated": reactivated,
	})
}
