package service

import (
	"context"
	"fmt"
	"log/slog"

	"syncflow.app/server/common/id"
	"syncflow.app/server/internal/model"
	"syncflow.app/server/internal/store"
)

type ProjectService interface {
	Create(ctx context.Context, name string, ownerID int64) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Project, error)
}

type projectService struct {
	projectStore store.ProjectStore
}

func NewProjectService(projectStore store.ProjectStore) ProjectService {
	return &projectService{projectStore: projectStore}
}

func (s *projectService) Create(ctx context.Context, name string, ownerID int64) (*model.Project, error) {
	project := &model.Project{
		ID:      id.New(),
		Name:    name,
		OwnerID: ownerID,
	}

	if err := s.projectStore.Create(ctx, project); err != nil {
		slog.ErrorContext(ctx, "failed to create project",
			"error", err,
			"owner_id", ownerID,
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	slog.InfoContext(ctx, "project created", "project_id", project.ID, "owner_id", ownerID)
	return project, nil
}

func (s *projectService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Project, error) {
	projects, err := s.projectStore.ListByOwner(ctx, ownerID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list projects", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}
