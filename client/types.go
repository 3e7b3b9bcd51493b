// Package client is the Go SDK for a SyncFlow server: a REST client for the
// auth/project/issue API, a websocket event stream, and an in-memory
// projection that mirrors one project's issues the way the dashboard does.
package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// IDs travel as JSON strings on the wire (snowflake int64s exceed what
// JavaScript numbers can hold), so the SDK keeps them as strings throughout.

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Issue struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	// Unlike the other ids, assignee_id travels as a JSON number.
	AssigneeID  *int64    `json:"assignee_id,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event kinds as they appear in the "event" field of a pushed frame.
const (
	EventIssueCreated = "issue:created"
	EventIssueUpdated = "issue:updated"
	EventIssueDeleted = "issue:deleted"
)

// Event is one change pushed over the stream. Issue is set for created and
// updated events; deleted events carry only the ids.
type Event struct {
	Kind      string
	Issue     *Issue
	IssueID   string
	ProjectID string
}

type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type deletedPayload struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
}

func decodeEvent(data []byte) (Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Event{}, fmt.Errorf("unmarshaling frame: %w", err)
	}

	switch f.Event {
	case EventIssueCreated, EventIssueUpdated:
		var issue Issue
		if err := json.Unmarshal(f.Payload, &issue); err != nil {
			return Event{}, fmt.Errorf("unmarshaling issue payload: %w", err)
		}
		return Event{Kind: f.Event, Issue: &issue, IssueID: issue.ID, ProjectID: issue.ProjectID}, nil
	case EventIssueDeleted:
		var payload deletedPayload
		if err := json.Unmarshal(f.Payload, &payload); err != nil {
			return Event{}, fmt.Errorf("unmarshaling deleted payload: %w", err)
		}
		return Event{Kind: f.Event, IssueID: payload.ID, ProjectID: payload.ProjectID}, nil
	default:
		return Event{}, fmt.Errorf("unknown event kind %q", f.Event)
	}
}
