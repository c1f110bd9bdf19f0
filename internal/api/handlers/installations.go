package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetInstallationToken returns a valid installation access token for the
// build pipeline, refreshing it against GitHub when needed.
func (h *Handler) GetInstallationToken(c *gin.Context) {
	installationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid installation id"})
		return
	}

	inst, err := h.tokens.GetOrRefresh(c.Request.Context(), installationID)
	if err != nil {
		h.logger.Error("Failed to get installation token",
			zap.Error(err),
			zap.Int64("installation_id", installationID),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to obtain installation token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"installation_id": inst.InstallationID,
		"token":           inst.Token.String,
		"expires_at":      inst.TokenExpiresAt,
	})
}
