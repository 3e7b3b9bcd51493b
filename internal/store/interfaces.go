package store

import (
	"context"
	"errors"

	"syncflow.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// ProjectStore defines the contract for project data access
type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Project, error)
}

// IssueFilter narrows List results. All supplied fields must match
// (conjunction); Search is a case-insensitive substring match on title.
type IssueFilter struct {
	ProjectID *int64
	Status    *model.IssueStatus
	Priority  *model.IssuePriority
	Search    string
}

// IssuePatch carries a partial update. Nil fields are left untouched.
type IssuePatch struct {
	Title       *string
	Description *string
	Status      *model.IssueStatus
	Priority    *model.IssuePriority
	AssigneeID  *int64
}

// IssueStore defines the contract for issue data access
type IssueStore interface {
	GetByID(ctx context.Context, id int64) (*model.Issue, error)
	Create(ctx context.Context, issue *model.Issue) error
	// Update applies the patch and returns the full post-update record.
	Update(ctx context.Context, id int64, patch IssuePatch) (*model.Issue, error)
	Delete(ctx context.Context, id int64) error
	// List returns issues matching every supplied filter, newest first.
	List(ctx context.Context, filter IssueFilter) ([]model.Issue, error)
}
