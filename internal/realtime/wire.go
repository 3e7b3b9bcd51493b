package realtime

import (
	"encoding/json"
	"fmt"
	"strconv"

	"syncflow.app/server/internal/model"
)

// Frame is the JSON message pushed to sessions: a named event plus its
// payload. Created/updated events carry the full issue record; deleted
// events carry only the issue id.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type deletedPayload struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
}

// Encode serializes a change event into its wire frame.
func Encode(event model.ChangeEvent) ([]byte, error) {
	var payload any
	switch event.Kind {
	case model.EventIssueCreated, model.EventIssueUpdated:
		payload = event.Issue
	case model.EventIssueDeleted:
		payload = deletedPayload{
			ID:        strconv.FormatInt(event.IssueID, 10),
			ProjectID: strconv.FormatInt(event.ProjectID, 10),
		}
	default:
		return nil, fmt.Errorf("unknown event kind %q", event.Kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}
	return json.Marshal(Frame{Event: string(event.Kind), Payload: raw})
}

// Decode parses a wire frame back into a change event.
func Decode(data []byte) (model.ChangeEvent, error) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return model.ChangeEvent{}, fmt.Errorf("unmarshaling frame: %w", err)
	}

	kind := model.EventKind(frame.Event)
	switch kind {
	case model.EventIssueCreated, model.EventIssueUpdated:
		var issue model.Issue
		if err := json.Unmarshal(frame.Payload, &issue); err != nil {
			return model.ChangeEvent{}, fmt.Errorf("unmarshaling issue payload: %w", err)
		}
		return model.ChangeEvent{Kind: kind, Issue: &issue, IssueID: issue.ID, ProjectID: issue.ProjectID}, nil
	case model.EventIssueDeleted:
		var payload deletedPayload
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			return model.ChangeEvent{}, fmt.Errorf("unmarshaling deleted payload: %w", err)
		}
		issueID, err := strconv.ParseInt(payload.ID, 10, 64)
		if err != nil {
			return model.ChangeEvent{}, fmt.Errorf("parsing issue id: %w", err)
		}
		projectID, _ := strconv.ParseInt(payload.ProjectID, 10, 64)
		return model.ChangeEvent{Kind: kind, IssueID: issueID, ProjectID: projectID}, nil
	default:
		return model.ChangeEvent{}, fmt.Errorf("unknown event kind %q", frame.Event)
	}
}
