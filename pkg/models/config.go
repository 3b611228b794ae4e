package models

import "time"

// APIConfig describes the remote todo collection.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file,omitempty" mapstructure:"file"`
}

// EventsConfig controls the JSONL event log.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path,omitempty" mapstructure:"path"`
}

// UIConfig holds presentation settings for the interactive view.
type UIConfig struct {
	DefaultFilter FilterMode    `yaml:"default_filter" mapstructure:"default_filter"`
	ToastDuration time.Duration `yaml:"toast_duration" mapstructure:"toast_duration"`
}

// NotificationsConfig configures forwarding of notifications to a webhook.
type NotificationsConfig struct {
	WebhookURL string `yaml:"webhook_url,omitempty" mapstructure:"webhook_url"`
}

// GlobalConfig holds all settings read from .dayplan.yaml via Viper.
type GlobalConfig struct {
	API           APIConfig           `yaml:"api" mapstructure:"api"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
	Events        EventsConfig        `yaml:"events" mapstructure:"events"`
	UI            UIConfig            `yaml:"ui" mapstructure:"ui"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
}
