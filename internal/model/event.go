package model

// EventKind discriminates the three change event variants.
type EventKind string

const (
	EventIssueCreated EventKind = "issue:created"
	EventIssueUpdated EventKind = "issue:updated"
	EventIssueDeleted EventKind = "issue:deleted"
)

// ChangeEvent describes one successful issue mutation. It is transient:
// delivered best-effort to sessions connected at publish time and never
// persisted or replayed.
//
// Issue carries the full post-mutation record for created/updated events.
// Deleted events carry only IssueID and ProjectID (the record is gone).
type ChangeEvent struct {
	Kind      EventKind `json:"kind"`
	Issue     *Issue    `json:"issue,omitempty"`
	IssueID   int64     `json:"issue_id,string,omitempty"`
	ProjectID int64     `json:"project_id,string,omitempty"`
}

func IssueCreated(issue *Issue) ChangeEvent {
	return ChangeEvent{Kind: EventIssueCreated, Issue: issue, IssueID: issue.ID, ProjectID: issue.ProjectID}
}

func IssueUpdated(issue *Issue) ChangeEvent {
	return ChangeEvent{Kind: EventIssueUpdated, Issue: issue, IssueID: issue.ID, ProjectID: issue.ProjectID}
}

func IssueDeleted(issueID, projectID int64) ChangeEvent {
	return ChangeEvent{Kind: EventIssueDeleted, IssueID: issueID, ProjectID: projectID}
}
