package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/tui"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List and manage tasks",
	Long: `List your tasks in an interactive browser, or another user's tasks
with --user. Another user's tasks are read-only.

Quick actions in the browser:
  ↑/↓ ←/→   Navigate tasks and pages
  /         Filter by name
  v         Cycle visibility filter
  n         New task
  e         Edit selected task
  a         Add an attachment
  d         Delete selected task
  r         Refresh
  esc/q     Quit`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		pid, _ := cmd.Flags().GetString("user")
		noUI, _ := cmd.Flags().GetBool("no-ui")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		user := app.Session.User()
		if pid == "" || (user != nil && user.PID == pid) {
			if err := app.requireSignedIn(); err != nil {
				return err
			}
			pid = ""
		}
		source := taskSource{Tasks: app.Tasks, pid: pid}

		if noUI || jsonOutput {
			tasks, err := source.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				out := newTaskListJSON(tasks)
				out.Owner = pid
				return renderJSON(cmd.OutOrStdout(), out)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks yet. Create one with 'taskhub add'.")
				return nil
			}
			renderTaskTable(cmd.OutOrStdout(), tasks)
			return nil
		}

		title, readOnly := "📋 My tasks", false
		if pid != "" {
			title, readOnly = "📋 Tasks of "+pid, true
		}
		return browseTasks(cmd, app, title, source, readOnly)
	}),
}

// browseTasks runs the task browser, handling the actions that leave it
// and coming back until the user quits
func browseTasks(cmd *cobra.Command, app *App, title string, source tui.TaskSource, readOnly bool) error {
	for {
		m, err := tui.RunTasks(title, source, readOnly, app.Shimmer())
		if err != nil {
			return fmt.Errorf("failed to run task browser: %w", err)
		}
		if m.Err() != nil {
			return m.Err()
		}

		action, task := m.Action()
		switch action {
		case tui.ActionNew:
			err = runAddForm(cmd, app, newParsedTask())
		case tui.ActionEdit:
			err = runEditForm(cmd, app, *task)
		case tui.ActionAttach:
			err = runAttachForm(cmd, app, task.ID)
		default:
			return nil
		}
		if err != nil {
			printError(cmd.ErrOrStderr(), err)
		}
	}
}

func init() {
	listCmd.Flags().StringP("user", "u", "", "List the tasks of the user with this ID")
	listCmd.Flags().Bool("no-ui", false, "Simple text output")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
