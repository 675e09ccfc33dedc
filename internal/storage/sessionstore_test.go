package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pairtask/pairtask/pkg/models"
)

func TestSessionStore_LoadMissingFile(t *testing.T) {
	s := NewSessionStore(t.TempDir())
	if err := s.Load(); err != nil {
		t.Fatalf("missing session.yaml must not be an error: %v", err)
	}
	if s.Current() != nil {
		t.Error("expected no session")
	}
}

func TestSessionStore_SetCurrentPersists(t *testing.T) {
	dir := t.TempDir()
	s := NewSessionStore(dir)

	member := models.Profile{ID: "m1", Email: "a@example.com", DisplayName: "Alice"}
	if err := s.SetCurrent(member); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := s.Current()
	if got == nil || got.Email != "a@example.com" {
		t.Fatalf("expected current member, got %+v", got)
	}

	// A fresh store reading the same directory sees the same session.
	reloaded := NewSessionStore(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got = reloaded.Current()
	if got == nil || got.ID != "m1" || got.DisplayName != "Alice" {
		t.Errorf("session did not round-trip through disk: %+v", got)
	}
}

func TestSessionStore_ClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s := NewSessionStore(dir)
	if err := s.SetCurrent(models.Profile{ID: "m1", Email: "a@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Current() != nil {
		t.Error("expected no session after clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "session.yaml")); !os.IsNotExist(err) {
		t.Error("session.yaml should be removed on clear")
	}

	// Clearing again is a no-op, not an error.
	if err := s.Clear(); err != nil {
		t.Errorf("repeated clear must not fail: %v", err)
	}
}

func TestSessionStore_WatchersNotified(t *testing.T) {
	s := NewSessionStore(t.TempDir())

	var notifications []*models.Profile
	s.Watch(func(p *models.Profile) { notifications = append(notifications, p) })

	if err := s.SetCurrent(models.Profile{ID: "m1", Email: "a@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0] == nil || notifications[0].ID != "m1" {
		t.Errorf("first notification should carry the member, got %+v", notifications[0])
	}
	if notifications[1] != nil {
		t.Errorf("logout must notify with nil, got %+v", notifications[1])
	}
}

func TestSessionStore_CurrentReturnsCopy(t *testing.T) {
	s := NewSessionStore(t.TempDir())
	if err := s.SetCurrent(models.Profile{ID: "m1", Email: "a@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := s.Current()
	first.Email = "mutated@example.com"

	if got := s.Current(); got.Email != "a@example.com" {
		t.Error("mutating the returned profile must not affect the store")
	}
}
