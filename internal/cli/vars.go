package cli

import (
	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/internal/observability"
	"github.com/pairtask/pairtask/internal/storage"
	"github.com/pairtask/pairtask/pkg/models"
)

// Service instances and factories, set during app initialization in app.go.
var (
	BasePath string
	Cfg      *models.Config
	Sessions storage.SessionStore
	EventLog observability.EventLog
	Notifier observability.Notifier

	// NewStore builds a remote store client authenticated as the given
	// member token.
	NewStore func(token string) core.RemoteStore

	// BuildCoordinator builds a coordinator for the given viewer. withFeed
	// controls whether the change-notification subscription is wired; one-shot
	// commands skip it, the live board uses it.
	BuildCoordinator func(viewer models.Profile, confirm core.Confirmer, withFeed bool) (*core.Coordinator, error)
)
