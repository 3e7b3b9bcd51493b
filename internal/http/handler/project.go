package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"syncflow.app/server/internal/http/dto"
	"syncflow.app/server/internal/http/middleware"
	"syncflow.app/server/internal/service"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns the authenticated user's own projects, newest first.
func (h *ProjectHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := h.projectService.ListByOwner(ctx, middleware.GetUserID(ctx))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid create project request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "project name is required"})
		return
	}

	project, err := h.projectService.Create(ctx, req.Name, middleware.GetUserID(ctx))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}
