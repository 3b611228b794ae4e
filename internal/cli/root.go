package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// UserAgent is sent with every request to the remote collection.
func UserAgent() string {
	return "dayplan/" + appVersion
}

var rootCmd = &cobra.Command{
	Use:   "dayplan",
	Short: "dayplan - a small planner for today's todos",
	Long: `dayplan keeps a list of todos in a remote REST collection.

Run without arguments to open the interactive view. The list, add, edit,
toggle and rm commands perform a single operation and exit; mcp serve
exposes the same operations to AI assistants.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dayplan %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
