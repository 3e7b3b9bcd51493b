package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client talks to a SyncFlow server over REST. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets an existing bearer token instead of logging in.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the bearer token currently in use, empty when not logged in.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// EventsURL returns the websocket URL of the server's event channel.
func (c *Client) EventsURL() string {
	u := c.baseURL + "/api/v1/events"
	if strings.HasPrefix(u, "https://") {
		return "wss://" + strings.TrimPrefix(u, "https://")
	}
	return "ws://" + strings.TrimPrefix(u, "http://")
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", signupRequest{Name: name, Email: email, Password: password}, &user)
	return user, err
}

// Login authenticates and stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return User{}, err
	}
	c.setToken(resp.Token)
	return resp.User, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/forgot-password", forgotPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/reset-password", resetPasswordRequest{Email: email, OTP: otp, NewPassword: password}, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user)
	return user, err
}

type createProjectRequest struct {
	Name string `json:"name"`
}

func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &projects)
	return projects, err
}

func (c *Client) CreateProject(ctx context.Context, name string) (Project, error) {
	var project Project
	err := c.do(ctx, http.MethodPost, "/api/v1/projects", createProjectRequest{Name: name}, &project)
	return project, err
}

// IssueFilter narrows an issue listing. Zero values mean "no constraint".
type IssueFilter struct {
	ProjectID string
	Status    string
	Priority  string
	Search    string
}

func (f IssueFilter) query() string {
	q := url.Values{}
	if f.ProjectID != "" {
		q.Set("projectId", f.ProjectID)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type createIssueRequest struct {
	ProjectID   string  `json:"project_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	AssigneeID  *int64  `json:"assignee_id,omitempty"`
}

// IssuePatch carries the fields of a partial update; nil fields are untouched.
type IssuePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *int64  `json:"assignee_id,omitempty"`
}

func (c *Client) Issues(ctx context.Context, filter IssueFilter) ([]Issue, error) {
	var issues []Issue
	err := c.do(ctx, http.MethodGet, "/api/v1/issues"+filter.query(), nil, &issues)
	return issues, err
}

func (c *Client) CreateIssue(ctx context.Context, projectID, title string, description *string, priority string, assigneeID *int64) (Issue, error) {
	var issue Issue
	err := c.do(ctx, http.MethodPost, "/api/v1/issues", createIssueRequest{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Priority:    priority,
		AssigneeID:  assigneeID,
	}, &issue)
	return issue, err
}

func (c *Client) UpdateIssue(ctx context.Context, issueID string, patch IssuePatch) (Issue, error) {
	var issue Issue
	err := c.do(ctx, http.MethodPatch, "/api/v1/issues/"+issueID, patch, &issue)
	return issue, err
}

func (c *Client) DeleteIssue(ctx context.Context, issueID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/issues/"+issueID, nil, nil)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		message := resp.Status
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); readErr == nil {
			if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
				message = errResp.Error
			}
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
