package models

// Config holds the merged application configuration read from .pairtask.yaml.
type Config struct {
	// ServerURL is the base URL of the remote task store.
	ServerURL string
	// Token authenticates this member against the remote store.
	Token string
	// RedisAddr is the address of the change-notification broker.
	RedisAddr string
	// RedisChannel is the pub/sub channel carrying task change events.
	RedisChannel string
	// EventLogPath is where the local JSONL event log is written.
	EventLogPath string

	Notifications NotificationConfig
	Serve         ServeConfig
}

// NotificationConfig controls the partner webhook notifier.
type NotificationConfig struct {
	Enabled    bool
	WebhookURL string
}

// ServeConfig configures the bundled sync server started by `pairtask serve`.
type ServeConfig struct {
	Listen string
	// AllowedEmails is the two-member allow-list. Clients authenticate with
	// their email as the bearer token; only these members may read or
	// mutate the task set.
	AllowedEmails []string
}
