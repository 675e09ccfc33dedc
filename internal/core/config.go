// Package core contains the task state reconciliation and view-derivation
// engine: the local task cache, the validation and mutation pipeline, and
// the deterministic derivation of tabs, counts, and board columns.
package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pairtask/pairtask/pkg/models"
)

// ConfigLoader loads and validates the application configuration from the
// .pairtask.yaml file in the base path.
type ConfigLoader interface {
	Load() (*models.Config, error)
	Validate(cfg *models.Config) error
}

type viperConfigLoader struct {
	basePath string
}

// NewConfigLoader creates a ConfigLoader reading .pairtask.yaml relative to
// basePath.
func NewConfigLoader(basePath string) ConfigLoader {
	return &viperConfigLoader{basePath: basePath}
}

// defaultConfig returns a Config populated with sensible defaults.
func defaultConfig(basePath string) *models.Config {
	return &models.Config{
		ServerURL:    "http://localhost:8787",
		RedisChannel: "pairtask:changes",
		EventLogPath: filepath.Join(basePath, ".pairtask_events.jsonl"),
		Serve: models.ServeConfig{
			Listen: ":8787",
		},
	}
}

// Load reads .pairtask.yaml using Viper. If the file does not exist,
// defaults are returned.
func (l *viperConfigLoader) Load() (*models.Config, error) {
	cfg := defaultConfig(l.basePath)

	v := viper.New()
	v.SetConfigName(".pairtask")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.basePath)

	v.SetDefault("server.url", cfg.ServerURL)
	v.SetDefault("server.token", cfg.Token)
	v.SetDefault("redis.addr", cfg.RedisAddr)
	v.SetDefault("redis.channel", cfg.RedisChannel)
	v.SetDefault("events.path", cfg.EventLogPath)
	v.SetDefault("notifications.enabled", false)
	v.SetDefault("serve.listen", cfg.Serve.Listen)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .pairtask.yaml: %w", err)
	}

	cfg.ServerURL = v.GetString("server.url")
	cfg.Token = v.GetString("server.token")
	cfg.RedisAddr = v.GetString("redis.addr")
	cfg.RedisChannel = v.GetString("redis.channel")
	cfg.EventLogPath = v.GetString("events.path")
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.WebhookURL = v.GetString("notifications.webhook_url")
	cfg.Serve.Listen = v.GetString("serve.listen")
	cfg.Serve.AllowedEmails = v.GetStringSlice("serve.allowed_emails")

	return cfg, nil
}

// Validate checks the configuration for invalid values and returns a clear
// error message identifying each problem.
func (l *viperConfigLoader) Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.ServerURL == "" {
		errs = append(errs, "server.url must not be empty")
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		errs = append(errs, fmt.Sprintf("server.url %q must start with http:// or https://", cfg.ServerURL))
	}
	if cfg.RedisChannel == "" {
		errs = append(errs, "redis.channel must not be empty")
	}
	if cfg.Notifications.Enabled && cfg.Notifications.WebhookURL == "" {
		errs = append(errs, "notifications.webhook_url must be set when notifications are enabled")
	}
	// A functioning workspace has exactly two members; more is a
	// configuration mistake, not a policy decision.
	if n := len(cfg.Serve.AllowedEmails); n > 2 {
		errs = append(errs, fmt.Sprintf("serve.allowed_emails lists %d members, at most 2 are supported", n))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
