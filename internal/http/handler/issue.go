package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"syncflow.app/server/common/logger"
	"syncflow.app/server/internal/http/dto"
	"syncflow.app/server/internal/model"
	"syncflow.app/server/internal/service"
	"syncflow.app/server/internal/store"
)

type IssueHandler struct {
	issueService service.IssueService
}

func NewIssueHandler(issueService service.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

// List returns issues matching every supplied filter, newest first.
// Query params: projectId, status, priority, search.
func (h *IssueHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var filter store.IssueFilter

	if raw := c.Query("projectId"); raw != "" {
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
			return
		}
		filter.ProjectID = &projectID
	}
	if raw := c.Query("status"); raw != "" {
		status := model.IssueStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := model.IssuePriority(raw)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		filter.Priority = &priority
	}
	filter.Search = c.Query("search")

	issues, err := h.issueService.List(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

func (h *IssueHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid create issue request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and project_id are required"})
		return
	}

	issue, err := h.issueService.Create(ctx, service.CreateIssueInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

func (h *IssueHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	issueID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: logger.Ptr(issueID)})

	var req dto.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid update issue request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := h.issueService.Update(ctx, issueID, req.ToPatch())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	issueID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		return
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{IssueID: logger.Ptr(issueID)})

	if err := h.issueService.Delete(ctx, issueID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete issue"})
		return
	}

	c.Status(http.StatusNoContent)
}
