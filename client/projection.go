package client

import "sync"

// ProjectionState tracks whether the local mirror has a snapshot yet.
type ProjectionState int

const (
	// Loading: a snapshot fetch is in flight; incoming events are dropped
	// because there is no base state to apply them to.
	Loading ProjectionState = iota
	// Ready: the snapshot is in place and events mutate it incrementally.
	Ready
)

func (s ProjectionState) String() string {
	if s == Ready {
		return "ready"
	}
	return "loading"
}

// Projection mirrors one project's issue list: a full snapshot from List plus
// incremental application of pushed events. Safe for concurrent use.
type Projection struct {
	mu        sync.RWMutex
	state     ProjectionState
	projectID string
	issues    []Issue
}

// NewProjection starts in Loading for the given project.
func NewProjection(projectID string) *Projection {
	return &Projection{state: Loading, projectID: projectID}
}

// Reset discards all state and re-enters Loading for a newly selected
// project. Events arriving before the next ApplySnapshot are dropped.
func (p *Projection) Reset(projectID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Loading
	p.projectID = projectID
	p.issues = nil
}

// ApplySnapshot installs the result of a full list fetch and enters Ready.
func (p *Projection) ApplySnapshot(issues []Issue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issues = make([]Issue, len(issues))
	copy(p.issues, issues)
	p.state = Ready
}

// Apply folds one pushed event into the mirror. Events are dropped while
// Loading; created/updated events for other projects are dropped; deletions
// apply regardless of project (removing an absent id is a no-op). Applying
// the same event twice leaves the mirror unchanged.
func (p *Projection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Ready {
		return
	}

	switch event.Kind {
	case EventIssueCreated:
		if event.Issue == nil || event.Issue.ProjectID != p.projectID {
			return
		}
		if p.indexOf(event.Issue.ID) >= 0 {
			return
		}
		p.issues = append(p.issues, *event.Issue)
	case EventIssueUpdated:
		if event.Issue == nil {
			return
		}
		if i := p.indexOf(event.Issue.ID); i >= 0 {
			p.issues[i] = *event.Issue
		}
	case EventIssueDeleted:
		if i := p.indexOf(event.IssueID); i >= 0 {
			p.issues = append(p.issues[:i], p.issues[i+1:]...)
		}
	}
}

// Issues returns a copy of the current mirror.
func (p *Projection) Issues() []Issue {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Issue, len(p.issues))
	copy(out, p.issues)
	return out
}

func (p *Projection) State() ProjectionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Projection) ProjectID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.projectID
}

// caller holds p.mu
func (p *Projection) indexOf(id string) int {
	for i := range p.issues {
		if p.issues[i].ID == id {
			return i
		}
	}
	return -1
}
