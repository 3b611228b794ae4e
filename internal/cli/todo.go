package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/internal/core"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

var editComplete bool

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a todo",
	Long: `Create a new incomplete todo. The arguments are joined with spaces.
Blank text is ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if core.IsBlank(text) {
			return nil
		}
		ctrl, err := loadController(cmd)
		if err != nil {
			return err
		}
		_, err = ctrl.AddTask(commandContext(cmd), text)
		return err
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <text...>",
	Short: "Replace the text of a todo",
	Long: `Replace the text of a todo. The completion status is kept unless
--complete is given.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args[1:], " ")
		if core.IsBlank(text) {
			return nil
		}
		ctrl, err := loadController(cmd)
		if err != nil {
			return err
		}

		update := models.TaskUpdate{Text: text}
		if cmd.Flags().Changed("complete") {
			v := editComplete
			update.IsComplete = &v
		}
		id := parseTaskID(args[0])
		return explainNotFound(id, ctrl.UpdateTask(commandContext(cmd), id, update))
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip the completion status of a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := loadController(cmd)
		if err != nil {
			return err
		}

		id := parseTaskID(args[0])
		if err := ctrl.ToggleComplete(commandContext(cmd), id); err != nil {
			return explainNotFound(id, err)
		}
		for _, t := range ctrl.Tasks() {
			if t.ID == id {
				state := "incomplete"
				if t.Completed {
					state = "complete"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Todo %s marked %s\n", id, state)
			}
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := loadController(cmd)
		if err != nil {
			return err
		}
		id := parseTaskID(args[0])
		return explainNotFound(id, ctrl.RemoveTask(commandContext(cmd), id))
	},
}

func parseTaskID(arg string) models.TaskID {
	return models.TaskID(strings.TrimSpace(arg))
}

func explainNotFound(id models.TaskID, err error) error {
	if errors.Is(err, core.ErrTaskNotFound) {
		return fmt.Errorf("todo %s not found", id)
	}
	return err
}

func init() {
	editCmd.Flags().BoolVar(&editComplete, "complete", false, "Set the completion status")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(rmCmd)
}
