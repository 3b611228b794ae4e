package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/pkg/models"
	"gopkg.in/yaml.v3"
)

var (
	listFilter string
	listFormat string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List todos",
	Long: `List the todos of the remote collection in remote order.

--filter narrows the list to Complete or Incomplete todos; it defaults to
ui.default_filter. --format selects table (default), json or yaml output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := loadController(cmd)
		if err != nil {
			return err
		}

		if listFilter != "" {
			mode, err := models.ParseFilterMode(listFilter)
			if err != nil {
				return fmt.Errorf("parsing --filter: %w", err)
			}
			ctrl.SetFilter(mode)
		}

		return writeTasks(cmd.OutOrStdout(), ctrl.CurrentView(), listFormat)
	},
}

func writeTasks(w io.Writer, tasks []models.Task, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		if len(tasks) == 0 {
			fmt.Fprintln(w, "No todos found.")
			return nil
		}
		fmt.Fprintf(w, "%-6s %-5s %s\n", "ID", "DONE", "TITLE")
		for _, t := range tasks {
			done := "[ ]"
			if t.Completed {
				done = "[x]"
			}
			fmt.Fprintf(w, "%-6s %-5s %s\n", t.ID, done, t.Title)
		}
		return nil

	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("formatting todos as JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil

	case "yaml":
		data, err := yaml.Marshal(tasks)
		if err != nil {
			return fmt.Errorf("formatting todos as YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil

	default:
		return fmt.Errorf("unsupported format %q (use table, json or yaml)", format)
	}
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Show All, Complete or Incomplete todos")
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table, json or yaml")
	rootCmd.AddCommand(listCmd)
}
