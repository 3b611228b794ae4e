package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/internal/observability"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath    string
	Config      *models.GlobalConfig
	Logger      *log.Logger
	LogFilePath string
	Store       core.TaskStore
	Events      core.EventLogger
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)

// newController builds a controller over Store. notifier and alerter are the
// presentation channels; the configured webhook, if any, also receives every
// notification.
func newController(notifier core.Notifier, alerter core.Alerter) core.TaskListController {
	n := notifier
	if Notifier != nil {
		n = observability.MultiNotifier{notifier, Notifier}
	}
	filter := models.FilterAll
	if Config != nil && Config.UI.DefaultFilter != "" {
		filter = Config.UI.DefaultFilter
	}
	return core.NewTaskListController(Store, core.ControllerOptions{
		Notifier: n,
		Alerter:  alerter,
		Events:   Events,
		Logger:   Logger,
		Filter:   filter,
	})
}

// loadController builds a console-backed controller and performs the initial
// load, so the command can act on the current remote list.
func loadController(cmd *cobra.Command) (core.TaskListController, error) {
	if Store == nil {
		return nil, fmt.Errorf("todo store not initialized")
	}
	console := consoleNotifier{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	ctrl := newController(console, console)
	if err := ctrl.Initialize(commandContext(cmd)); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// consoleNotifier prints notifications to stdout and alerts to stderr.
type consoleNotifier struct {
	out    io.Writer
	errOut io.Writer
}

func (c consoleNotifier) Notify(n models.Notification) {
	fmt.Fprintln(c.out, n.Message)
}

func (c consoleNotifier) Alert(message string) {
	fmt.Fprintln(c.errOut, message)
}
