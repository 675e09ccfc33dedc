// Package remote implements the capability contract the core requires from
// the remote collaborator: the REST task store and the change-notification
// feed.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

// HTTPStore implements core.RemoteStore against the pairtask REST API.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPStore creates a store client for the given base URL and member
// token. A nil client falls back to a default with a request timeout.
func NewHTTPStore(baseURL, token string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPStore{baseURL: baseURL, token: token, client: client}
}

// FetchAllTasks retrieves the complete task set.
func (s *HTTPStore) FetchAllTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.do(ctx, http.MethodGet, "/api/tasks", "", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// InsertTask submits a new task. The server assigns ID, CreatedBy, and both
// timestamps; the confirmed task is returned.
func (s *HTTPStore) InsertTask(ctx context.Context, draft models.Task) (*models.Task, error) {
	var created models.Task
	if err := s.do(ctx, http.MethodPost, "/api/tasks", "", draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask applies a partial update to an existing task.
func (s *HTTPStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error {
	return s.do(ctx, http.MethodPatch, "/api/tasks/"+id, id, patch, nil)
}

// DeleteTask removes a task permanently.
func (s *HTTPStore) DeleteTask(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/tasks/"+id, id, nil, nil)
}

// ListWorkspaceMembers returns the workspace's member profiles, used once
// per session start to resolve the partner identity.
func (s *HTTPStore) ListWorkspaceMembers(ctx context.Context) ([]models.Profile, error) {
	var members []models.Profile
	if err := s.do(ctx, http.MethodGet, "/api/members", "", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// do performs one request and maps the response onto the core error
// taxonomy: 401/403 become PermissionError, 404 NotFoundError, transport
// failures NetworkError. id is the task ID addressed by the request, ""
// for collection endpoints.
func (s *HTTPStore) do(ctx context.Context, method, path, id string, body, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &core.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if len(msg) == 0 {
			msg = []byte("not permitted (check the workspace allow-list)")
		}
		return &core.PermissionError{Msg: string(msg)}
	case resp.StatusCode == http.StatusNotFound:
		if id == "" {
			id = path
		}
		return &core.NotFoundError{ID: id}
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &core.NetworkError{Op: op, Err: fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &core.NetworkError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}
