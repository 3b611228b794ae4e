package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/observability"
)

var (
	statsJSON  bool
	statsSince string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display todo activity metrics",
	Long: `Display aggregated metrics derived from the event log.

Metrics include loads, todos created, updated, completed, reopened and
removed, list clears, failed remote calls per operation and the number of
sessions that recorded events.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (event log may be disabled)")
		}

		sinceTime, err := observability.ParseSince(statsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		if statsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Metrics (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Fprintf(out, "  %-24s %d\n", "Events recorded:", metrics.EventCount)
		fmt.Fprintf(out, "  %-24s %d\n", "Sessions:", metrics.Sessions)
		fmt.Fprintf(out, "  %-24s %d\n", "Loads:", metrics.Loads)
		fmt.Fprintf(out, "  %-24s %d\n", "Todos created:", metrics.TodosCreated)
		fmt.Fprintf(out, "  %-24s %d\n", "Todos updated:", metrics.TodosUpdated)
		fmt.Fprintf(out, "  %-24s %d\n", "Todos completed:", metrics.TodosCompleted)
		fmt.Fprintf(out, "  %-24s %d\n", "Todos reopened:", metrics.TodosReopened)
		fmt.Fprintf(out, "  %-24s %d\n", "Todos removed:", metrics.TodosRemoved)
		fmt.Fprintf(out, "  %-24s %d\n", "Lists cleared:", metrics.Clears)

		if len(metrics.Failures) > 0 {
			fmt.Fprintln(out, "\n  Failures:")
			ops := make([]string, 0, len(metrics.Failures))
			for op := range metrics.Failures {
				ops = append(ops, op)
			}
			sort.Strings(ops)
			for _, op := range ops {
				fmt.Fprintf(out, "    %-20s %d\n", op+":", metrics.Failures[op])
			}
		}

		if metrics.OldestEvent != nil {
			fmt.Fprintf(out, "\n  %-24s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Fprintf(out, "  %-24s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output metrics as JSON")
	statsCmd.Flags().StringVar(&statsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(statsCmd)
}
