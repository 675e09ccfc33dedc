package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/internal/storage"
	"github.com/pairtask/pairtask/pkg/models"
)

// stubStore satisfies core.RemoteStore for tests that never hit the remote.
type stubStore struct{}

func (stubStore) FetchAllTasks(ctx context.Context) ([]models.Task, error) { return nil, nil }
func (stubStore) InsertTask(ctx context.Context, draft models.Task) (*models.Task, error) {
	return &draft, nil
}
func (stubStore) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error {
	return nil
}
func (stubStore) DeleteTask(ctx context.Context, id string) error { return nil }
func (stubStore) ListWorkspaceMembers(ctx context.Context) ([]models.Profile, error) {
	return nil, nil
}

func coordWithTasks(ids ...string) *core.Coordinator {
	cache := core.NewTaskCache()
	for _, id := range ids {
		cache.UpsertOne(models.Task{ID: id, Title: "t", Priority: models.PriorityMedium, Status: models.StatusOpen})
	}
	return core.NewCoordinator(stubStore{}, nil, cache, nil, nil, models.Profile{ID: "viewer"})
}

// stubStoreWithTask is a stubStore whose fetch returns one task.
type stubStoreWithTask struct{ stubStore }

func (stubStoreWithTask) FetchAllTasks(ctx context.Context) ([]models.Task, error) {
	return []models.Task{{ID: "x", Title: "t", Priority: models.PriorityMedium, Status: models.StatusOpen}}, nil
}

// useSessionFixture points the package vars at a temp session store and a
// stub coordinator factory for the duration of one test.
func useSessionFixture(t *testing.T) {
	t.Helper()
	prevSessions, prevBuild := Sessions, BuildCoordinator
	t.Cleanup(func() {
		Sessions = prevSessions
		BuildCoordinator = prevBuild
	})
	Sessions = storage.NewSessionStore(t.TempDir())
	BuildCoordinator = func(viewer models.Profile, confirm core.Confirmer, withFeed bool) (*core.Coordinator, error) {
		return core.NewCoordinator(stubStoreWithTask{}, nil, core.NewTaskCache(), confirm, nil, viewer), nil
	}
}

func TestStartSession_LogoutEndsLiveSession(t *testing.T) {
	useSessionFixture(t)
	if err := Sessions.SetCurrent(models.Profile{ID: "m1", Email: "me@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coord, err := startSession(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Cache().Len() != 1 {
		t.Fatalf("expected 1 cached task, got %d", coord.Cache().Len())
	}

	if err := Sessions.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Cache().Len() != 0 {
		t.Error("logout must end the live session and clear the cache")
	}
}

func TestStartSession_IdentitySwitchEndsLiveSession(t *testing.T) {
	useSessionFixture(t)
	if err := Sessions.SetCurrent(models.Profile{ID: "m1", Email: "me@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	coord, err := startSession(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Sessions.SetCurrent(models.Profile{ID: "m2", Email: "partner@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Cache().Len() != 0 {
		t.Error("a different identity must end the previous member's session")
	}
}

func TestStartSession_NotLoggedIn(t *testing.T) {
	useSessionFixture(t)

	_, err := startSession(context.Background(), nil, false)
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected a not-logged-in error, got %v", err)
	}
}

func TestResolveTaskID(t *testing.T) {
	coord := coordWithTasks(
		"0a1b2c3d-0000-0000-0000-000000000001",
		"0a9f8e7d-0000-0000-0000-000000000002",
		"ffee0011-0000-0000-0000-000000000003",
	)

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr string
	}{
		{name: "exact id", raw: "ffee0011-0000-0000-0000-000000000003", want: "ffee0011-0000-0000-0000-000000000003"},
		{name: "unique prefix", raw: "ffee", want: "ffee0011-0000-0000-0000-000000000003"},
		{name: "longer unique prefix", raw: "0a1b2c3d", want: "0a1b2c3d-0000-0000-0000-000000000001"},
		{name: "ambiguous prefix", raw: "0a", wantErr: "ambiguous"},
		{name: "no match", raw: "zz", wantErr: "no task matches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTaskID(coord, tt.raw)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
