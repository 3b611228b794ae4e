package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	dayplanmcp "github.com/valter-silva-au/dayplan/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the dayplan MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dayplan MCP server on stdio",
	Long: `Start the dayplan MCP server on stdio transport.

The server loads the todo list once and exposes it as MCP tools that AI
assistants can call: list_todos, add_todo, update_todo, toggle_todo,
remove_todo, clear_todos, get_metrics. Notifications go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("todo store not initialized")
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()

		// stdout carries the protocol.
		console := consoleNotifier{out: cmd.ErrOrStderr(), errOut: cmd.ErrOrStderr()}
		ctrl := newController(console, console)
		if err := ctrl.Initialize(ctx); err != nil {
			// The list_todos refresh option can retry the load.
			if Logger != nil {
				Logger.Warn("initial load failed, serving an empty list", "err", err)
			}
		}

		srv := dayplanmcp.NewServer(ctrl, MetricsCalc, appVersion)
		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
