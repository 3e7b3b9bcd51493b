package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"syncflow.app/server/common/id"
	"syncflow.app/server/internal/model"
	"syncflow.app/server/internal/realtime"
	"syncflow.app/server/internal/store"
)

// ErrProjectNotFound is returned when a mutation references a project that
// does not exist.
var ErrProjectNotFound = errors.New("project not found")

type CreateIssueInput struct {
	ProjectID   int64
	Title       string
	Description *string
	Priority    *model.IssuePriority
	AssigneeID  *int64
}

type IssueService interface {
	Create(ctx context.Context, in CreateIssueInput) (*model.Issue, error)
	Update(ctx context.Context, issueID int64, patch store.IssuePatch) (*model.Issue, error)
	Delete(ctx context.Context, issueID int64) error
	List(ctx context.Context, filter store.IssueFilter) ([]model.Issue, error)
}

type issueService struct {
	issueStore   store.IssueStore
	projectStore store.ProjectStore
	publisher    realtime.Publisher
}

// NewIssueService wires the mutation path to the broadcast channel. The
// publisher is injected as a narrow capability: exactly one event is
// published per successful mutation, after the store write, and a publish
// that reaches no session still counts as success.
func NewIssueService(issueStore store.IssueStore, projectStore store.ProjectStore, publisher realtime.Publisher) IssueService {
	return &issueService{
		issueStore:   issueStore,
		projectStore: projectStore,
		publisher:    publisher,
	}
}

func (s *issueService) Create(ctx context.Context, in CreateIssueInput) (*model.Issue, error) {
	if _, err := s.projectStore.GetByID(ctx, in.ProjectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("checking project: %w", err)
	}

	issue := &model.Issue{
		ID:          id.New(),
		ProjectID:   in.ProjectID,
		AssigneeID:  in.AssigneeID,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.IssueStatusOpen,
		Priority:    model.IssuePriorityMedium,
	}
	if in.Priority != nil {
		issue.Priority = *in.Priority
	}

	if err := s.issueStore.Create(ctx, issue); err != nil {
		slog.ErrorContext(ctx, "failed to create issue",
			"error", err,
			"project_id", in.ProjectID,
		)
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	s.publisher.Publish(ctx, model.IssueCreated(issue))

	slog.InfoContext(ctx, "issue created", "issue_id", issue.ID, "project_id", issue.ProjectID)
	return issue, nil
}

func (s *issueService) Update(ctx context.Context, issueID int64, patch store.IssuePatch) (*model.Issue, error) {
	issue, err := s.issueStore.Update(ctx, issueID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to update issue",
			"error", err,
			"issue_id", issueID,
		)
		return nil, fmt.Errorf("updating issue: %w", err)
	}

	s.publisher.Publish(ctx, model.IssueUpdated(issue))

	slog.InfoContext(ctx, "issue updated", "issue_id", issue.ID, "project_id", issue.ProjectID)
	return issue, nil
}

func (s *issueService) Delete(ctx context.Context, issueID int64) error {
	issue, err := s.issueStore.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fmt.Errorf("loading issue: %w", err)
	}

	if err := s.issueStore.Delete(ctx, issueID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost a race with a concurrent delete; the record is gone either way.
			return err
		}
		slog.ErrorContext(ctx, "failed to delete issue",
			"error", err,
			"issue_id", issueID,
		)
		return fmt.Errorf("deleting issue: %w", err)
	}

	s.publisher.Publish(ctx, model.IssueDeleted(issueID, issue.ProjectID))

	slog.InfoContext(ctx, "issue deleted", "issue_id", issueID, "project_id", issue.ProjectID)
	return nil
}

func (s *issueService) List(ctx context.Context, filter store.IssueFilter) ([]model.Issue, error) {
	issues, err := s.issueStore.List(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list issues", "error", err)
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	return issues, nil
}
