// Package internal provides the App struct that wires all components of
// dayplan together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/valter-silva-au/dayplan/internal/cli"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/integration"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

const (
	// EventLogFileName is the default event log location relative to the base path.
	EventLogFileName = ".dayplan_events.jsonl"
	// LogFileName is the default diagnostic log used while the TUI owns the terminal.
	LogFileName = "dayplan.log"
)

// App holds all service dependencies for dayplan.
type App struct {
	BasePath  string
	SessionID string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Remote collection
	Store *integration.TodoAPIClient

	// Observability
	Logger      *log.Logger
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of dayplan. basePath is the
// directory holding .dayplan.yaml, .env and the event log.
func NewApp(basePath string) (*App, error) {
	app := &App{
		BasePath:  basePath,
		SessionID: uuid.NewString(),
	}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Diagnostic logging ---
	app.Logger, err = observability.NewLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	app.Logger = app.Logger.With("session", app.SessionID[:8])

	// --- Remote collection ---
	app.Store, err = integration.NewTodoAPIClient(integration.TodoAPIConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cli.UserAgent(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating todo API client: %w", err)
	}

	// --- Observability ---
	if cfg.Events.Enabled {
		eventLogPath := resolvePath(basePath, cfg.Events.Path, EventLogFileName)
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: run without the event log.
			app.Logger.Warn("event log disabled", "path", eventLogPath, "err", err)
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if cfg.Notifications.WebhookURL != "" {
		app.Notifier = observability.NewWebhookNotifier(cfg.Notifications.WebhookURL, app.Logger)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.Logger = app.Logger
	cli.LogFilePath = resolvePath(basePath, cfg.Log.File, LogFileName)
	cli.Store = app.Store
	if app.EventLog != nil {
		cli.Events = &eventLogAdapter{log: app.EventLog, session: app.SessionID}
	}

	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the dayplan base directory. It checks the
// DAYPLAN_HOME env var, then walks up from the working directory looking for
// .dayplan.yaml, then falls back to the working directory.
func ResolveBasePath() string {
	if home := os.Getenv("DAYPLAN_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	cwd := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName+".yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}

// resolvePath returns configured made absolute against basePath, or
// basePath/fallback when configured is empty.
func resolvePath(basePath, configured, fallback string) string {
	if configured == "" {
		return filepath.Join(basePath, fallback)
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(basePath, configured)
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger and tags
// every event with the process session id.
type eventLogAdapter struct {
	log     observability.EventLog
	session string
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Type:    eventType,
		Session: a.session,
		Message: eventType,
		Data:    data,
	})
}
