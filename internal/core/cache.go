package core

import (
	"sync"
	"time"

	"github.com/pairtask/pairtask/pkg/models"
)

// TaskCache is the in-memory authoritative snapshot of the task set, keyed
// by task ID with no implied ordering. Change notifications arrive on a
// separate goroutine, so access is mutex-guarded.
type TaskCache struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

// NewTaskCache creates an empty cache.
func NewTaskCache() *TaskCache {
	return &TaskCache{tasks: make(map[string]models.Task)}
}

// ReplaceAll replaces the entire task set. This is the sole reconciliation
// point with the remote store: any local change not yet confirmed by a
// successful mutation is not preserved across it.
func (c *TaskCache) ReplaceAll(tasks []models.Task) {
	next := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		next[t.ID] = t
	}
	c.mu.Lock()
	c.tasks = next
	c.mu.Unlock()
}

// UpsertOne inserts or overwrites a task by ID, used after a successful create.
func (c *TaskCache) UpsertOne(task models.Task) {
	c.mu.Lock()
	c.tasks[task.ID] = task
	c.mu.Unlock()
}

// ApplyPatch merges a field subset into the existing task and stamps
// UpdatedAt, used after a successful remote update. It reports whether the
// task was present; a missing task is left to the next full refresh.
func (c *TaskCache) ApplyPatch(id string, patch models.TaskPatch) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tasks[id]
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

	// The wall clock may not tick between two rapid successive commits;
	// UpdatedAt must still strictly increase per commit.
	now := time.Now().UTC()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = now

	c.tasks[id] = t
	return t, true
}

// RemoveOne deletes a task by ID, used after a successful remote delete.
func (c *TaskCache) RemoveOne(id string) {
	c.mu.Lock()
	delete(c.tasks, id)
	c.mu.Unlock()
}

// Get returns the committed copy of a task.
func (c *TaskCache) Get(id string) (models.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[id]
	return t, ok
}

// Snapshot returns a copy of all cached tasks in unspecified order.
func (c *TaskCache) Snapshot() []models.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		out = append(out, t)
	}
	return out
}

// Len returns the number of cached tasks.
func (c *TaskCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Clear empties the cache, used on logout and session teardown.
func (c *TaskCache) Clear() {
	c.mu.Lock()
	c.tasks = make(map[string]models.Task)
	c.mu.Unlock()
}
