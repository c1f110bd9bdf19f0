package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "devpush",
	})
}

// Ready reports whether this instance can serve traffic: the database must
// be reachable and the schema fully migrated.
func (h *Handler) Ready(c *gin.Context) {
	if err := h.repo.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not ready",
			"database": "unreachable",
		})
		return
	}

	version, dirty, err := h.repo.SchemaVersion(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not ready",
			"database": "ok",
			"schema":   "not migrated",
		})
		return
	}
	if dirty {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":         "not ready",
			"database":       "ok",
			"schema":         "dirty",
			"schema_version": version,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ready",
		"database":       "ok",
		"schema_version": version,
	})
}
