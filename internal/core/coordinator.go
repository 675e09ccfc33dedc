package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pairtask/pairtask/pkg/models"
)

// defaultTitle is the placeholder title given to newly created tasks.
const defaultTitle = "New task"

// refreshDebounce is how long the coordinator waits after the last change
// notification before refetching the task set.
const refreshDebounce = 250 * time.Millisecond

// RemoteStore is the capability contract the coordinator requires from the
// remote collaborator. Implementations live outside core; defining the
// interface here keeps core independent of the transport package.
type RemoteStore interface {
	FetchAllTasks(ctx context.Context) ([]models.Task, error)
	InsertTask(ctx context.Context, draft models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
	ListWorkspaceMembers(ctx context.Context) ([]models.Profile, error)
}

// ChangeFeed delivers change notifications for the remote task collection.
// The callback is invoked at least once per remote mutation with no payload.
type ChangeFeed interface {
	Subscribe(ctx context.Context, onChange func()) (unsubscribe func(), err error)
}

// Confirmer is the explicit yes/no confirmation capability required before
// destructive actions. The CLI backs it with a prompt or a --yes flag.
type Confirmer interface {
	Confirm(prompt string) bool
}

// EventLogger records coordinator events for the local event log.
// It may be nil-backed; failures to log never fail the operation.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// Coordinator orchestrates create/patch/delete/toggle against the remote
// store, applies validation, commits results into the local cache, and
// reacts to inbound change notifications by triggering a refresh.
//
// Every operation is all-or-nothing with respect to the cache: either the
// remote call fully succeeds and the cache is updated, or the cache is left
// exactly as before.
type Coordinator struct {
	store   RemoteStore
	feed    ChangeFeed
	cache   *TaskCache
	confirm Confirmer
	events  EventLogger

	viewer  models.Profile
	partner *models.Profile

	selectedID  string
	draft       *models.Task
	unsubscribe func()
	debouncer   *Debouncer
	onRefresh   func()

	// mu guards stopped and the commit/clear of the cache so a refresh
	// that was in flight when Stop ran can never repopulate the cache.
	mu            sync.Mutex
	stopped       bool
	sessionCancel context.CancelFunc
}

// NewCoordinator creates a coordinator for the given viewer identity.
// feed, confirm, and events may be nil; a nil confirmer refuses every
// destructive action.
func NewCoordinator(store RemoteStore, feed ChangeFeed, cache *TaskCache, confirm Confirmer, events EventLogger, viewer models.Profile) *Coordinator {
	return &Coordinator{
		store:   store,
		feed:    feed,
		cache:   cache,
		confirm: confirm,
		events:  events,
		viewer:  viewer,
	}
}

// Start initializes the session: fetches the task set, resolves the partner
// identity, and subscribes to change notifications.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	c.stopped = false
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	if err := c.resolvePartner(ctx); err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	if c.feed != nil {
		sessionCtx, cancel := context.WithCancel(context.Background())
		c.sessionCancel = cancel
		c.debouncer = NewDebouncer(refreshDebounce, func() {
			// Best effort: a failed background refresh leaves the previous
			// snapshot in place until the next notification.
			_ = c.Refresh(sessionCtx)
		})
		unsub, err := c.feed.Subscribe(ctx, c.debouncer.Trigger)
		if err != nil {
			return fmt.Errorf("starting session: subscribing to changes: %w", err)
		}
		c.unsubscribe = unsub
	}
	return nil
}

// Stop tears the session down: the cache and selection are discarded, the
// pending refresh is cancelled, and the subscription is invalidated so a
// late callback cannot resurrect stale state.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	if c.sessionCancel != nil {
		c.sessionCancel()
		c.sessionCancel = nil
	}
	if c.debouncer != nil {
		c.debouncer.Stop()
		c.debouncer = nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.mu.Lock()
	c.cache.Clear()
	c.mu.Unlock()
	c.selectedID = ""
	c.draft = nil
	c.partner = nil
}

// Refresh performs a full fetch and wholesale cache replacement, superseding
// any local state not yet committed.
func (c *Coordinator) Refresh(ctx context.Context) error {
	tasks, err := c.store.FetchAllTasks(ctx)
	if err != nil {
		return fmt.Errorf("refreshing tasks: %w", err)
	}
	// A fetch that was in flight when Stop ran must not repopulate the
	// cleared cache.
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.cache.ReplaceAll(tasks)
	c.mu.Unlock()
	c.logEvent("tasks.refreshed", map[string]any{"count": len(tasks)})
	if c.onRefresh != nil {
		c.onRefresh()
	}
	return nil
}

// SetRefreshListener registers a callback invoked after every successful
// full refresh, so a live view can redraw. Set it before Start.
func (c *Coordinator) SetRefreshListener(fn func()) {
	c.onRefresh = fn
}

// resolvePartner finds the workspace member whose ID differs from the
// viewer's. A missing partner is not an error: the partner tab simply
// matches nothing until the second member joins.
func (c *Coordinator) resolvePartner(ctx context.Context) error {
	members, err := c.store.ListWorkspaceMembers(ctx)
	if err != nil {
		return fmt.Errorf("resolving partner: %w", err)
	}
	c.partner = nil
	for _, m := range members {
		if m.ID != c.viewer.ID {
			p := m
			c.partner = &p
			break
		}
	}
	return nil
}

// Viewer returns the current viewer identity.
func (c *Coordinator) Viewer() models.Profile {
	return c.viewer
}

// Partner returns the resolved partner profile, or nil if the workspace has
// only one member so far.
func (c *Coordinator) Partner() *models.Profile {
	return c.partner
}

// PartnerID returns the partner's profile ID, or "" when unresolved.
func (c *Coordinator) PartnerID() string {
	if c.partner == nil {
		return ""
	}
	return c.partner.ID
}

// Cache exposes the committed task snapshot for view derivation.
func (c *Coordinator) Cache() *TaskCache {
	return c.cache
}

// CreateTask builds a task with fixed defaults and submits it to the remote
// store. Never optimistic: no local task exists until the store confirms it
// and assigns ID and timestamps. The created task is inserted and selected.
func (c *Coordinator) CreateTask(ctx context.Context) (*models.Task, error) {
	draft := models.Task{
		Title:     defaultTitle,
		Priority:  models.PriorityMedium,
		Status:    models.StatusOpen,
		CreatedBy: c.viewer.ID,
	}

	created, err := c.store.InsertTask(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	c.cache.UpsertOne(*created)
	c.Select(created.ID)
	c.logEvent("task.created", map[string]any{"id": created.ID})
	return created, nil
}

// Select opens a draft buffer: a full mutable copy of the task, independent
// of the committed cache. Selecting a different task (or deselecting with
// an empty id) discards any unsaved draft edits with no autosave and no
// confirmation; this is deliberate, not a bug.
func (c *Coordinator) Select(id string) *models.Task {
	c.selectedID = ""
	c.draft = nil
	if id == "" {
		return nil
	}
	t, ok := c.cache.Get(id)
	if !ok {
		return nil
	}
	c.selectedID = id
	buf := t
	c.draft = &buf
	return c.draft
}

// SelectedID returns the ID of the selected task, or "" if none.
func (c *Coordinator) SelectedID() string {
	return c.selectedID
}

// Draft returns the current draft buffer. Edits to the returned task act on
// the draft only until SaveDraft commits them.
func (c *Coordinator) Draft() *models.Task {
	return c.draft
}

// Patch validates any title/memo fields present, submits the normalized
// payload to the remote store, and on success merges it into the cache.
// On any failure the cache is unchanged and the error is surfaced; the
// draft buffer may still hold the unsaved edit.
func (c *Coordinator) Patch(ctx context.Context, id string, patch models.TaskPatch) error {
	if patch.Title != nil {
		title, err := NormalizeTitle(*patch.Title)
		if err != nil {
			return err
		}
		patch.Title = &title
	}
	if patch.Memo != nil {
		memo, err := NormalizeMemo(*patch.Memo)
		if err != nil {
			return err
		}
		patch.Memo = &memo
	}
	if patch.Priority != nil && !models.ValidPriority(*patch.Priority) {
		return &ValidationError{Field: "priority", Reason: "must be low, medium, or high"}
	}

	if err := c.store.UpdateTask(ctx, id, patch); err != nil {
		c.reconcileNotFound(id, err)
		return fmt.Errorf("updating task: %w", err)
	}

	c.cache.ApplyPatch(id, patch)
	c.logEvent("task.patched", map[string]any{"id": id})
	return nil
}

// SaveDraft commits the entire draft's editable fields through Patch.
// On success the draft is refreshed from the committed copy.
func (c *Coordinator) SaveDraft(ctx context.Context) error {
	if c.draft == nil {
		return &GuardError{Reason: "no task selected"}
	}
	d := c.draft
	patch := models.TaskPatch{
		Title:    &d.Title,
		Memo:     &d.Memo,
		DueDate:  &d.DueDate,
		Priority: &d.Priority,
		Assignee: &d.Assignee,
	}
	if err := c.Patch(ctx, d.ID, patch); err != nil {
		return err
	}
	if committed, ok := c.cache.Get(d.ID); ok {
		buf := committed
		c.draft = &buf
	}
	return nil
}

// ToggleDone flips a task's status between open and done.
func (c *Coordinator) ToggleDone(ctx context.Context, id string) error {
	t, ok := c.cache.Get(id)
	if !ok {
		return &NotFoundError{ID: id}
	}
	status := t.Status.Toggled()
	return c.Patch(ctx, id, models.TaskPatch{Status: &status})
}

// ToggleArchive flips a task's soft-delete flag after explicit confirmation.
// Archived tasks leave all active views but remain editable and restorable.
func (c *Coordinator) ToggleArchive(ctx context.Context, id string) error {
	t, ok := c.cache.Get(id)
	if !ok {
		return &NotFoundError{ID: id}
	}

	verb := "Archive"
	if t.IsArchived {
		verb = "Unarchive"
	}
	if !c.confirmed(fmt.Sprintf("%s %q?", verb, t.Title)) {
		return &GuardError{Reason: "cancelled"}
	}

	archived := !t.IsArchived
	return c.Patch(ctx, id, models.TaskPatch{IsArchived: &archived})
}

// Delete hard-removes a task. It fails with a GuardError before any remote
// call or confirmation prompt unless the task is done or archived. There is
// no undo after deletion.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	t, ok := c.cache.Get(id)
	if !ok {
		return &NotFoundError{ID: id}
	}
	if t.Status != models.StatusDone && !t.IsArchived {
		return &GuardError{Reason: "only done or archived tasks can be deleted"}
	}
	if !c.confirmed(fmt.Sprintf("Permanently delete %q? This cannot be undone.", t.Title)) {
		return &GuardError{Reason: "cancelled"}
	}

	if err := c.store.DeleteTask(ctx, id); err != nil {
		c.reconcileNotFound(id, err)
		return fmt.Errorf("deleting task: %w", err)
	}

	c.cache.RemoveOne(id)
	if c.selectedID == id {
		c.selectedID = ""
		c.draft = nil
	}
	c.logEvent("task.deleted", map[string]any{"id": id})
	return nil
}

// reconcileNotFound evicts a task the remote store reports as gone, so the
// partner's delete does not linger locally until the next notification.
func (c *Coordinator) reconcileNotFound(id string, err error) {
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return
	}
	c.cache.RemoveOne(id)
	if c.selectedID == id {
		c.selectedID = ""
		c.draft = nil
	}
}

func (c *Coordinator) confirmed(prompt string) bool {
	return c.confirm != nil && c.confirm.Confirm(prompt)
}

func (c *Coordinator) logEvent(eventType string, data map[string]any) {
	if c.events != nil {
		_ = c.events.LogEvent(eventType, data)
	}
}
