package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/pkg/models"
)

// startSession builds and starts a coordinator for the logged-in member.
// Callers must Stop the returned coordinator when done.
func startSession(ctx context.Context, confirm core.Confirmer, withFeed bool) (*core.Coordinator, error) {
	current := Sessions.Current()
	if current == nil {
		return nil, fmt.Errorf("not logged in (run 'pairtask login <email>' first)")
	}

	coord, err := BuildCoordinator(*current, confirm, withFeed)
	if err != nil {
		return nil, err
	}
	if err := coord.Start(ctx); err != nil {
		return nil, err
	}

	// A session change while the coordinator is live invalidates it: logout
	// and identity switches end the session, a re-login as the same member
	// refetches the task set.
	Sessions.Watch(func(p *models.Profile) {
		if p != nil && p.ID == coord.Viewer().ID {
			_ = coord.Refresh(ctx)
			return
		}
		coord.Stop()
	})
	return coord, nil
}

// resolveTaskID matches a possibly-abbreviated task ID against the cache.
// Server-assigned IDs are UUIDs, so a unique prefix is enough.
func resolveTaskID(coord *core.Coordinator, raw string) (string, error) {
	if _, ok := coord.Cache().Get(raw); ok {
		return raw, nil
	}

	var matches []models.Task
	for _, t := range coord.Cache().Snapshot() {
		if strings.HasPrefix(t.ID, raw) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task matches %q", raw)
	case 1:
		return matches[0].ID, nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d tasks match)", raw, len(matches))
	}
}
