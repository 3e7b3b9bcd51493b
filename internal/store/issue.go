package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"syncflow.app/server/internal/model"
)

type issueStore struct {
	pool *pgxpool.Pool
}

func newIssueStore(pool *pgxpool.Pool) IssueStore {
	return &issueStore{pool: pool}
}

const issueColumns = `id, project_id, assignee_id, title, description, status, priority, created_at, updated_at`

func (s *issueStore) GetByID(ctx context.Context, id int64) (*model.Issue, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = $1`, id)
	return scanIssue(row)
}

func (s *issueStore) Create(ctx context.Context, issue *model.Issue) error {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO issues (id, project_id, assignee_id, title, description, status, priority)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+issueColumns,
		issue.ID, issue.ProjectID, issue.AssigneeID, issue.Title, issue.Description,
		issue.Status, issue.Priority)
	created, err := scanIssue(row)
	if err != nil {
		return err
	}
	*issue = *created
	return nil
}

// Update applies only the non-nil patch fields in a single atomic statement
// and returns the full post-update record. The write is last-write-wins:
// there is no version check, so a concurrent update can be overwritten.
func (s *issueStore) Update(ctx context.Context, id int64, patch IssuePatch) (*model.Issue, error) {
	query, args := buildIssueUpdate(id, patch)
	row := s.pool.QueryRow(ctx, query, args...)
	return scanIssue(row)
}

func (s *issueStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *issueStore) List(ctx context.Context, filter IssueFilter) ([]model.Issue, error) {
	query, args := buildIssueList(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := []model.Issue{}
	for rows.Next() {
		var i model.Issue
		if err := rows.Scan(&i.ID, &i.ProjectID, &i.AssigneeID, &i.Title, &i.Description,
			&i.Status, &i.Priority, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}

func buildIssueUpdate(id int64, patch IssuePatch) (string, []any) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.AssigneeID != nil {
		add("assignee_id", *patch.AssigneeID)
	}

	query := fmt.Sprintf(
		`UPDATE issues SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), issueColumns)
	return query, args
}

func buildIssueList(filter IssueFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ProjectID != nil {
		add("project_id = $%d", *filter.ProjectID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.Priority != nil {
		add("priority = $%d", *filter.Priority)
	}
	if filter.Search != "" {
		add("title ILIKE $%d", "%"+filter.Search+"%")
	}

	query := `SELECT ` + issueColumns + ` FROM issues`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	return query, args
}

func scanIssue(row pgx.Row) (*model.Issue, error) {
	var i model.Issue
	err := row.Scan(&i.ID, &i.ProjectID, &i.AssigneeID, &i.Title, &i.Description,
		&i.Status, &i.Priority, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}
