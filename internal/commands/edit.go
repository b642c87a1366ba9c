package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's name or visibility",
	Long: `Edit an existing task. With --name or --visibility the change is applied
directly; otherwise an interactive form opens with the current values.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		if err := app.requireSignedIn(); err != nil {
			return err
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		detail, err := app.Tasks.TaskFull(cmd.Context(), id)
		if err != nil {
			return err
		}
		task := detail.Summary()

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("visibility") && !noUI {
			return runEditForm(cmd, app, task)
		}

		req := api.UpdateTaskRequest{ID: id, Name: task.Name, Visibility: task.Visibility}
		if name, _ := cmd.Flags().GetString("name"); cmd.Flags().Changed("name") {
			req.Name = name
		}
		if v, _ := cmd.Flags().GetString("visibility"); v != "" {
			if req.Visibility, err = models.ParseVisibility(v); err != nil {
				return err
			}
		}

		msg, err := updateTask(cmd.Context(), app, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}),
}

// runEditForm opens the edit form pre-filled with task
func runEditForm(cmd *cobra.Command, app *App, task models.Task) error {
	title := fmt.Sprintf("Edit task #%d", task.ID)
	return runForm(cmd, app, title, tui.EditTaskFields(task), func(ctx context.Context, v map[string]string) (string, error) {
		visibility, err := models.ParseVisibility(v["visibility"])
		if err != nil {
			return "", err
		}
		return updateTask(ctx, app, api.UpdateTaskRequest{ID: task.ID, Name: v["name"], Visibility: visibility})
	})
}

func updateTask(ctx context.Context, app *App, req api.UpdateTaskRequest) (string, error) {
	updated, err := app.Tasks.Update(ctx, req)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✏️  Updated task #%d: %s %s", updated.ID, updated.Name, tui.VisibilityBadge(updated.Visibility)), nil
}

var removeCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		if err := app.requireSignedIn(); err != nil {
			return err
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := confirm(cmd, fmt.Sprintf("Delete task #%d? [y/N] ", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := app.Tasks.Remove(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑  Deleted task #%d\n", id)
		return nil
	}),
}

func init() {
	editCmd.Flags().String("name", "", "New task name")
	editCmd.Flags().String("visibility", "", "New visibility: private|public|paid")
	editCmd.Flags().Bool("no-ui", false, "Edit via command line")

	removeCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
