// Package internal provides the App struct that wires all components of
// pairtask together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pairtask/pairtask/internal/cli"
	"github.com/pairtask/pairtask/internal/core"
	"github.com/pairtask/pairtask/internal/observability"
	"github.com/pairtask/pairtask/internal/remote"
	"github.com/pairtask/pairtask/internal/storage"
	"github.com/pairtask/pairtask/pkg/models"
)

// App holds all service dependencies for pairtask.
type App struct {
	BasePath string

	Cfg      *models.Config
	Sessions storage.SessionStore
	EventLog observability.EventLog
	Notifier observability.Notifier
}

// NewApp creates and wires all components. basePath is the directory
// holding .pairtask.yaml and the local session state (typically ~/.pairtask
// or a directory containing .pairtask.yaml).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	loader := core.NewConfigLoader(basePath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("initializing pairtask: %w", err)
	}
	if err := loader.Validate(cfg); err != nil {
		return nil, fmt.Errorf("initializing pairtask: %w", err)
	}
	app.Cfg = cfg

	app.Sessions = storage.NewSessionStore(basePath)
	if err := app.Sessions.Load(); err != nil {
		return nil, fmt.Errorf("initializing pairtask: %w", err)
	}

	// Non-fatal: run without the event log if it can't be created.
	app.EventLog, _ = observability.NewJSONLEventLog(cfg.EventLogPath)

	if cfg.Notifications.Enabled && cfg.Notifications.WebhookURL != "" {
		app.Notifier = observability.NewWebhookNotifier(cfg.Notifications.WebhookURL)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Cfg = cfg
	cli.Sessions = app.Sessions
	cli.EventLog = app.EventLog
	cli.Notifier = app.Notifier

	cli.NewStore = func(token string) core.RemoteStore {
		if cfg.Token != "" {
			token = cfg.Token
		}
		return remote.NewHTTPStore(cfg.ServerURL, token, nil)
	}

	cli.BuildCoordinator = func(viewer models.Profile, confirm core.Confirmer, withFeed bool) (*core.Coordinator, error) {
		store := cli.NewStore(viewer.Email)

		var feed core.ChangeFeed
		if withFeed && cfg.RedisAddr != "" {
			rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			feed = remote.NewRedisChangeFeed(rc, cfg.RedisChannel)
		}

		var events core.EventLogger
		if app.EventLog != nil {
			events = &eventLogAdapter{log: app.EventLog}
		}

		return core.NewCoordinator(store, feed, core.NewTaskCache(), confirm, events, viewer), nil
	}

	return app, nil
}

// Close releases resources held by the App.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the pairtask data directory. It checks the
// PAIRTASK_HOME env var, then walks up from the working directory looking
// for .pairtask.yaml, then falls back to ~/.pairtask.
func ResolveBasePath() string {
	if home := os.Getenv("PAIRTASK_HOME"); home != "" {
		return home
	}

	dir, err := os.Getwd()
	if err == nil {
		for {
			if _, statErr := os.Stat(filepath.Join(dir, ".pairtask.yaml")); statErr == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".pairtask")
	}
	cwd, _ := os.Getwd()
	return cwd
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time: time.Now().UTC(),
		Type: eventType,
		Data: data,
	})
}
