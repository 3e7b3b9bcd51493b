package service_test

import (
	"context"
	"sync"
	"time"

	"syncflow.app/server/internal/model"
	"syncflow.app/server/internal/store"
)

type mockIssueStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Issue, error)
	createFn  func(ctx context.Context, issue *model.Issue) error
	updateFn  func(ctx context.Context, id int64, patch store.IssuePatch) (*model.Issue, error)
	deleteFn  func(ctx context.Context, id int64) error
	listFn    func(ctx context.Context, filter store.IssueFilter) ([]model.Issue, error)
}

func (m *mockIssueStore) GetByID(ctx context.Context, id int64) (*model.Issue, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockIssueStore) Create(ctx context.Context, issue *model.Issue) error {
	if m.createFn != nil {
		return m.createFn(ctx, issue)
	}
	return nil
}

func (m *mockIssueStore) Update(ctx context.Context, id int64, patch store.IssuePatch) (*model.Issue, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, store.ErrNotFound
}

func (m *mockIssueStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockIssueStore) List(ctx context.Context, filter store.IssueFilter) ([]model.Issue, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []model.Issue{}, nil
}

type mockProjectStore struct {
	getByIDFn     func(ctx context.Context, id int64) (*model.Project, error)
	createFn      func(ctx context.Context, project *model.Project) error
	listByOwnerFn func(ctx context.Context, ownerID int64) ([]model.Project, error)
}

func (m *mockProjectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockProjectStore) Create(ctx context.Context, project *model.Project) error {
	if m.createFn != nil {
		return m.createFn(ctx, project)
	}
	return nil
}

func (m *mockProjectStore) ListByOwner(ctx context.Context, ownerID int64) ([]model.Project, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return []model.Project{}, nil
}

type mockUserStore struct {
	getByIDFn        func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
	updatePasswordFn func(ctx context.Context, id int64, passwordHash string) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}

// memOTPStore is an in-memory stand-in for the redis-backed OTP store.
type memOTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{codes: map[string]string{}}
}

func (m *memOTPStore) Set(_ context.Context, email, code string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *memOTPStore) Get(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email], nil
}

func (m *memOTPStore) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

// recordingPublisher captures every event published through it.
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []model.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.ChangeEvent, len(p.events))
	copy(out, p.events)
	return out
}
