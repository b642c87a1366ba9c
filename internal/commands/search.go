package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/bindings"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search tasks by name",
	Long: `Search the tasks visible to you by name. Results can be narrowed to one
visibility with --visibility.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		query := strings.Join(args, " ")
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("search query cannot be empty")
		}

		var visibility models.Visibility
		if v, _ := cmd.Flags().GetString("visibility"); v != "" {
			var err error
			if visibility, err = models.ParseVisibility(v); err != nil {
				return err
			}
		}

		tasks, err := app.Tasks.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		tasks = bindings.FilterByVisibility(tasks, visibility)

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			out := newTaskListJSON(tasks)
			out.Query = query
			return renderJSON(cmd.OutOrStdout(), out)
		}
		renderSearchTable(cmd, tasks, query)
		return nil
	}),
}

// renderSearchTable outputs search results as a formatted table
func renderSearchTable(cmd *cobra.Command, tasks []models.Task, query string) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Search results for '%s' (%d found):\n", query, len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found matching your search.")
		return
	}
	fmt.Fprintln(w)
	renderTaskTable(w, tasks)
}

var exploreCmd = &cobra.Command{
	Use:   "explore [query]",
	Short: "Search tasks interactively as you type",
	Args:  cobra.ArbitraryArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		model := tui.NewExploreModel(app.Tasks, app.Config.SearchDebounce, strings.Join(args, " "), app.Shimmer())
		m, err := tui.RunExplore(model)
		if err != nil {
			return fmt.Errorf("failed to run explorer: %w", err)
		}

		chosen := m.Chosen()
		if chosen == nil {
			return nil
		}
		detail, err := app.Tasks.TaskFull(cmd.Context(), chosen.ID)
		if err != nil {
			return err
		}
		renderTaskDetail(cmd.OutOrStdout(), detail)
		return nil
	}),
}

func init() {
	searchCmd.Flags().String("visibility", "", "Only show tasks with this visibility: private|public|paid")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
}
