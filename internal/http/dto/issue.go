package dto

import (
	"syncflow.app/server/internal/model"
	"syncflow.app/server/internal/store"
)

type CreateIssueRequest struct {
	ProjectID   int64                `json:"project_id,string" binding:"required"`
	Title       string               `json:"title" binding:"required,min=1,max=500"`
	Description *string              `json:"description" binding:"omitempty,max=10000"`
	Priority    *model.IssuePriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssigneeID  *int64               `json:"assignee_id"`
}

type UpdateIssueRequest struct {
	Title       *string              `json:"title" binding:"omitempty,min=1,max=500"`
	Description *string              `json:"description" binding:"omitempty,max=10000"`
	Status      *model.IssueStatus   `json:"status" binding:"omitempty,oneof=open in_progress done"`
	Priority    *model.IssuePriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssigneeID  *int64               `json:"assignee_id"`
}

func (r UpdateIssueRequest) ToPatch() store.IssuePatch {
	return store.IssuePatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssigneeID:  r.AssigneeID,
	}
}
