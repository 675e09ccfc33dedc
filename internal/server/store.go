// Package server implements the bundled sync server started by
// `pairtask serve`: the concrete remote-store collaborator for a
// self-hosted two-person workspace.
package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pairtask/pairtask/pkg/models"
)

// memStore is the server-side task and member store. It is the remote
// store's own concurrency arbiter between the two participants' edits:
// last write wins under the mutex, there is no per-task locking.
type memStore struct {
	mu      sync.RWMutex
	tasks   map[string]models.Task
	members []models.Profile
}

func newMemStore(members []models.Profile) *memStore {
	return &memStore{
		tasks:   make(map[string]models.Task),
		members: members,
	}
}

// AllTasks returns a copy of every stored task.
func (s *memStore) AllTasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// Insert stores a new task, assigning ID, creator, and timestamps.
func (s *memStore) Insert(draft models.Task, createdBy string) models.Task {
	now := time.Now().UTC()
	draft.ID = uuid.NewString()
	draft.CreatedBy = createdBy
	draft.CreatedAt = now
	draft.UpdatedAt = now

	s.mu.Lock()
	s.tasks[draft.ID] = draft
	s.mu.Unlock()
	return draft
}

// Update merges a patch into an existing task, refreshing UpdatedAt.
// It reports whether the task exists.
func (s *memStore) Update(id string, patch models.TaskPatch) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Memo != nil {
		t.Memo = *patch.Memo
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.IsArchived != nil {
		t.IsArchived = *patch.IsArchived
	}
	t.UpdatedAt = time.Now().UTC()

	s.tasks[id] = t
	return t, true
}

// Delete removes a task, reporting whether it existed.
func (s *memStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// Members returns the workspace member profiles.
func (s *memStore) Members() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Profile{}, s.members...)
}

// MemberByID looks up a profile by ID.
func (s *memStore) MemberByID(id string) (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ID == id {
			return m, true
		}
	}
	return models.Profile{}, false
}
