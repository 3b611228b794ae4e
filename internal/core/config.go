// Package core contains the business logic for dayplan: the task list
// controller that mirrors the remote todo collection, list filtering, and
// configuration loading.
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

const (
	// ConfigFileName is the base name of the YAML config file, without extension.
	ConfigFileName = ".dayplan"

	// EnvPrefix prefixes every environment override, e.g. DAYPLAN_API_BASE_URL.
	EnvPrefix = "DAYPLAN"

	// DefaultBaseURL is the public placeholder todo API.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com"
)

// ConfigurationManager loads and validates dayplan configuration.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading .dayplan.yaml, with environment overrides and an optional .env file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
// A zero API timeout means calls are never cut short.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		API: models.APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 0,
		},
		Log: models.LogConfig{
			Level: "info",
		},
		Events: models.EventsConfig{
			Enabled: true,
		},
		UI: models.UIConfig{
			DefaultFilter: models.FilterAll,
			ToastDuration: 3 * time.Second,
		},
	}
}

// LoadGlobalConfig reads .dayplan.yaml from the base path. Values from a
// .env file in the base path and from DAYPLAN_* environment variables take
// precedence over the file. A missing file yields defaults.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	if err := godotenv.Load(filepath.Join(cm.basePath, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("events.enabled", cfg.Events.Enabled)
	v.SetDefault("events.path", cfg.Events.Path)
	v.SetDefault("ui.default_filter", string(cfg.UI.DefaultFilter))
	v.SetDefault("ui.toast_duration", cfg.UI.ToastDuration)
	v.SetDefault("notifications.webhook_url", cfg.Notifications.WebhookURL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
		}
	}

	cfg.API.BaseURL = strings.TrimRight(v.GetString("api.base_url"), "/")
	cfg.API.Timeout = v.GetDuration("api.timeout")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.File = v.GetString("log.file")
	cfg.Events.Enabled = v.GetBool("events.enabled")
	cfg.Events.Path = v.GetString("events.path")
	cfg.UI.ToastDuration = v.GetDuration("ui.toast_duration")
	cfg.Notifications.WebhookURL = v.GetString("notifications.webhook_url")

	mode, err := models.ParseFilterMode(v.GetString("ui.default_filter"))
	if err != nil {
		return nil, fmt.Errorf("ui.default_filter: %w", err)
	}
	cfg.UI.DefaultFilter = mode

	return cfg, nil
}

// ValidateConfig checks cfg for invalid values and returns an error listing
// every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.API.BaseURL == "" {
		errs = append(errs, "api.base_url must not be empty")
	} else if u, err := url.Parse(cfg.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("api.base_url %q must be an absolute http(s) URL", cfg.API.BaseURL))
	}

	if cfg.API.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("api.timeout must be non-negative, got %s", cfg.API.Timeout))
	}

	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error, fatal", cfg.Log.Level))
	}

	if _, err := models.ParseFilterMode(string(cfg.UI.DefaultFilter)); err != nil {
		errs = append(errs, fmt.Sprintf("ui.default_filter %q is invalid, must be one of: All, Complete, Incomplete", cfg.UI.DefaultFilter))
	}

	if cfg.UI.ToastDuration <= 0 {
		errs = append(errs, fmt.Sprintf("ui.toast_duration must be positive, got %s", cfg.UI.ToastDuration))
	}

	if cfg.Notifications.WebhookURL != "" {
		if u, err := url.Parse(cfg.Notifications.WebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("notifications.webhook_url %q must be an absolute URL", cfg.Notifications.WebhookURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
