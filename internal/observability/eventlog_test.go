package observability

import (
	"path/filepath"
	"testing"
	"time"
)

func TestJSONLEventLog_WriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	logImpl, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logImpl.Close()

	now := time.Now().UTC()
	events := []Event{
		{Time: now, Type: "task.created", Data: map[string]any{"id": "a"}},
		{Time: now.Add(time.Second), Type: "task.patched", Data: map[string]any{"id": "a"}},
		{Time: now.Add(2 * time.Second), Type: "tasks.refreshed"},
	}
	for _, e := range events {
		if err := logImpl.Write(e); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	got, err := logImpl.ReadSince(time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].Type != "task.created" || got[2].Type != "tasks.refreshed" {
		t.Errorf("events read back in wrong shape: %+v", got)
	}
	if got[0].Data["id"] != "a" {
		t.Errorf("event data lost: %+v", got[0].Data)
	}
}

func TestJSONLEventLog_ReadSinceFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	logImpl, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logImpl.Close()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := logImpl.Write(Event{Time: base.Add(time.Duration(i) * time.Hour), Type: "task.patched"}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	got, err := logImpl.ReadSince(base.Add(3 * time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 events at or after the cutoff, got %d", len(got))
	}
}

func TestJSONLEventLog_ReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	logImpl, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer logImpl.Close()

	// Nothing written yet; the file exists but is empty.
	got, err := logImpl.ReadSince(time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}
