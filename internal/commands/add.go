package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/parser"
	"github.com/AyloRyd/taskhub/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task name]",
	Short: "Add a new task",
	Long: `Add a new task with optional metadata.

Modes:
  Interactive: taskhub add (no arguments)
  Quick: taskhub add "Task name" (with optional flags)
  Smart parsing: taskhub add "Write report +public due:3days https://example.com/brief"

Smart parsing syntax:
  +visibility  - Private (default), public or paid
  due:3days    - Due date (dd/mm/yyyy, yyyy-mm-dd, today, tomorrow, X days, X hours, X weeks)
  https://...  - Links, added as Url attachments

Due dates and links are added as attachments right after the task is created.`,
	Args: cobra.ArbitraryArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		if err := app.requireSignedIn(); err != nil {
			return err
		}
		noUI, _ := cmd.Flags().GetBool("no-ui")

		parsed := newParsedTask()
		if len(args) > 0 {
			parsed = parser.ParseTask(strings.Join(args, " "))
		}
		applyAddFlags(cmd, &parsed)

		if len(args) == 0 {
			if noUI {
				return errors.New("task name is required")
			}
			return runAddForm(cmd, app, parsed)
		}

		if len(parsed.Errors) > 0 {
			if noUI {
				return errors.New(strings.Join(parsed.Errors, "; "))
			}
			// Fall back to the form with the parsed data pre-filled
			fmt.Fprintf(cmd.OutOrStdout(), "⚠️  Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
			fmt.Fprintln(cmd.OutOrStdout(), "Opening interactive mode for confirmation...")
			return runAddForm(cmd, app, parsed)
		}

		msg, err := createTask(cmd.Context(), app, parsed.Name, parsed.Visibility, parsed.Attachments())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}),
}

func newParsedTask() parser.ParsedTask {
	return parser.ParsedTask{Visibility: models.VisibilityPrivate}
}

// applyAddFlags lets explicit flags override the smart syntax
func applyAddFlags(cmd *cobra.Command, p *parser.ParsedTask) {
	if v, _ := cmd.Flags().GetString("visibility"); v != "" {
		visibility, err := models.ParseVisibility(v)
		if err != nil {
			p.Errors = append(p.Errors, err.Error())
		} else {
			p.Visibility = visibility
		}
	}

	if d, _ := cmd.Flags().GetString("due"); d != "" {
		due, err := parser.ParseDueDate(d)
		if err != nil {
			p.Errors = append(p.Errors, err.Error())
		} else {
			p.DueDate = due
		}
	}

	if u, _ := cmd.Flags().GetString("url"); u != "" {
		if parser.IsURL(u) {
			p.URLs = append(p.URLs, u)
		} else {
			p.Errors = append(p.Errors, "Invalid URL: "+u)
		}
	}
}

// runAddForm opens the new-task form pre-filled from p
func runAddForm(cmd *cobra.Command, app *App, p parser.ParsedTask) error {
	fields := tui.TaskFields(p.Name, p.Visibility)
	if p.DueDate != nil {
		fields[2].Initial = parser.DueDateData(*p.DueDate)
	}
	var extraURLs []string
	if len(p.URLs) > 0 {
		fields[3].Initial = p.URLs[0]
		extraURLs = p.URLs[1:]
	}

	return runForm(cmd, app, "New task", fields, func(ctx context.Context, v map[string]string) (string, error) {
		visibility, err := models.ParseVisibility(v["visibility"])
		if err != nil {
			return "", err
		}

		var attachments []models.Attachment
		if due := strings.TrimSpace(v["due"]); due != "" {
			data, err := parser.NormalizeAttachmentData(models.AttachmentDueDate, due)
			if err != nil {
				return "", err
			}
			attachments = append(attachments, models.Attachment{Type: models.AttachmentDueDate, Data: data})
		}
		if u := strings.TrimSpace(v["url"]); u != "" {
			attachments = append(attachments, models.Attachment{Type: models.AttachmentURL, Data: u})
		}
		for _, u := range extraURLs {
			attachments = append(attachments, models.Attachment{Type: models.AttachmentURL, Data: u})
		}

		return createTask(ctx, app, v["name"], visibility, attachments)
	})
}

// createTask creates the task and then its attachments. A failed attachment
// is reported in the message; only a failed create is an error.
func createTask(ctx context.Context, app *App, name string, visibility models.Visibility, attachments []models.Attachment) (string, error) {
	task, err := app.Tasks.Create(ctx, api.CreateTaskRequest{Name: strings.TrimSpace(name), Visibility: visibility})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Created task #%d: %s %s", task.ID, task.Name, tui.VisibilityBadge(task.Visibility))
	for _, a := range attachments {
		if _, err := app.Tasks.AddAttachment(ctx, api.AddAttachmentRequest{TaskID: task.ID, Type: a.Type, Data: a.Data}); err != nil {
			fmt.Fprintf(&b, "\n   ⚠️  Could not add %s: %v", a.Type, err)
			continue
		}
		fmt.Fprintf(&b, "\n   📎 %s: %s", a.Type, attachmentSummary(a))
	}
	return b.String(), nil
}

func init() {
	addCmd.Flags().String("visibility", "", "Visibility: private|public|paid")
	addCmd.Flags().String("due", "", "Due date (dd/mm/yyyy, tomorrow, 3 days, 2 weeks)")
	addCmd.Flags().String("url", "", "Link to attach")
	addCmd.Flags().Bool("no-ui", false, "Skip interactive TUI")
}
