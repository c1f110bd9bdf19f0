package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devpush/devpush/internal/db"
)

type CreateProjectRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=255"`
	Subdomain      string `json:"subdomain" binding:"required,min=3,max=63,lowercase,alphanum"`
	RepoFullName   string `json:"repo_full_name" binding:"required"`
	InstallationID int64  `json:"installation_id" binding:"required"`
}

type UpdateProjectRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=255"`
	Subdomain      string `json:"subdomain" binding:"required,min=3,max=63,lowercase,alphanum"`
	RepoFullName   string `json:"repo_full_name" binding:"required"`
	InstallationID int64  `json:"installation_id" binding:"required"`
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")

	if existing, _ := h.repo.GetProjectBySubdomain(c.Request.Context(), req.Subdomain); existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Subdomain already taken"})
		return
	}

	now := time.Now().UTC()
	project := &db.Project{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           req.Name,
		Subdomain:      req.Subdomain,
		RepoFullName:   req.RepoFullName,
		InstallationID: req.InstallationID,
		Status:         db.ProjectActive,
		LastTrafficAt:  &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.repo.CreateProject(c.Request.Context(), project); err != nil {
		h.logger.Error("Failed to create project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	h.logger.Info("Project created",
		zap.String("project_id", project.ID),
		zap.String("user_id", userID),
		zap.String("repo", project.RepoFullName),
	)

	c.JSON(http.StatusCreated, project)
}

func (h *Handler) GetProject(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")

	project, err := h.repo.GetProject(c.Request.Context(), projectID, userID)
	if err != nil {
		if err.Error() == "project not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.logger.Error("Failed to get project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) ListProjects(c *gin.Context) {
	userID := c.GetString("user_id")
	page, limit := parsePagination(c)

	projects, err := h.repo.GetProjectsByUser(c.Request.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	total, err := h.repo.CountProjectsByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to count projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projectID := c.Param("id")
	userID := c.GetString("user_id")

	project, err := h.repo.GetProject(c.Request.Context(), projectID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	project.Name = req.Name
	project.Subdomain = req.Subdomain
	project.RepoFullName = req.RepoFullName
	project.InstallationID = req.InstallationID
	project.UpdatedAt = time.Now().UTC()

	if err := h.repo.UpdateProject(c.Request.Context(), project); err != nil {
		h.logger.Error("Failed to update project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")

	if _, err := h.repo.GetProject(c.Request.Context(), projectID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if err := h.repo.SoftDeleteProject(c.Request.Context(), projectID, userID); err != nil {
		h.logger.Error("Failed to delete project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	h.logger.Info("Project deleted",
		zap.String("project_id", projectID),
		zap.String("user_id", userID),
	)

	c.Status(http.StatusNoContent)
}

func (h *Handler) ReactivateProject(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")

	project, err := h.repo.GetProject(c.Request.Context(), projectID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	ok, err := h.monitor.ReactivateProject(c.Request.Context(), project)
	if err != nil {
		h.logger.Error("Failed to reactivate project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reactivate project"})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "Project is not in a reactivatable state"})
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) ListDeployments(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")
	page, limit := parsePagination(c)

	if _, err := h.repo.GetProject(c.Request.Context(), projectID, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	deployments, err := h.repo.GetDeploymentsByProject(c.Request.Context(), projectID, limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("Failed to list deployments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	total, err := h.repo.CountDeploymentsByProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("Failed to count deployments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deployments": deployments,
		"page":        page,
		"limit":       limit,
		"total":       total,
	})
}

// parsePagination clamps page/limit query parameters to sane bounds.
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
