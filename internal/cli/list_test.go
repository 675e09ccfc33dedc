package cli

import (
	"strings"
	"testing"

	"github.com/pairtask/pairtask/pkg/models"
)

func TestShortID(t *testing.T) {
	if got := shortID("0a1b2c3d-e4f5-6789-abcd-ef0123456789"); got != "0a1b2c3d" {
		t.Errorf("expected 8-char prefix, got %q", got)
	}
	if got := shortID("short"); got != "short" {
		t.Errorf("short IDs must pass through, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("brief", 10); got != "brief" {
		t.Errorf("expected unchanged, got %q", got)
	}
	got := truncate(strings.Repeat("x", 50), 10)
	if len([]rune(got)) != 10 {
		t.Errorf("expected 10 runes, got %d (%q)", len([]rune(got)), got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestDueLabel(t *testing.T) {
	today := "2026-08-28"

	tests := []struct {
		name string
		due  string
		want string
	}{
		{"no due date", "", "no due"},
		{"past date", "2026-08-27", "overdue"},
		{"today", today, "today"},
		{"future date", "2026-08-29", "2026-08-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dueLabel(models.Task{DueDate: tt.due}, today)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTabNames(t *testing.T) {
	names := tabNames()
	for _, tab := range models.AllTabs {
		if !strings.Contains(names, string(tab)) {
			t.Errorf("tab %s missing from %q", tab, names)
		}
	}
}
