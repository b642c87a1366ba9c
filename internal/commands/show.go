package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/parser"
	"github.com/AyloRyd/taskhub/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task with its owner and attachments",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		detail, err := app.Tasks.TaskFull(cmd.Context(), id)
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return renderJSON(cmd.OutOrStdout(), detail)
		}
		renderTaskDetail(cmd.OutOrStdout(), detail)
		return nil
	}),
}

var attachCmd = &cobra.Command{
	Use:   "attach <id>",
	Short: "Add an attachment to a task",
	Long: `Add a typed attachment to a task. Without flags an interactive form opens.

Types: Description, DueDate, File, Url, Text, Tip, Hint, Warning, Progress, Importance
(case-insensitive; desc, due, link and note are accepted too).

Examples:
  taskhub attach 12 --type url --data https://example.com
  taskhub attach 12 --type due --data "2 weeks"
  taskhub attach 12 --type progress --data 40
  taskhub attach 12 --file ./brief.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
		if err := app.requireSignedIn(); err != nil {
			return err
		}
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		typeName, _ := cmd.Flags().GetString("type")
		data, _ := cmd.Flags().GetString("data")
		file, _ := cmd.Flags().GetString("file")

		if typeName == "" && data == "" && file == "" {
			return runAttachForm(cmd, app, id)
		}

		if typeName == "" {
			typeName = string(models.AttachmentDescription)
			if file != "" {
				typeName = string(models.AttachmentFile)
			}
		}
		attachmentType, err := parser.NormalizeAttachmentType(typeName)
		if err != nil {
			return err
		}
		if attachmentType == models.AttachmentFile && file == "" {
			return errors.New("--file is required for File attachments")
		}
		if data, err = parser.NormalizeAttachmentData(attachmentType, data); err != nil {
			return err
		}

		req := api.AddAttachmentRequest{TaskID: id, Type: attachmentType, Data: data}
		if file != "" {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()
			req.File = &api.FileUpload{Name: filepath.Base(file), Content: f}
		}

		msg, err := addAttachment(cmd.Context(), app, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}),
}

// runAttachForm opens the attachment form for task id
func runAttachForm(cmd *cobra.Command, app *App, id int64) error {
	title := fmt.Sprintf("Attach to task #%d", id)
	return runForm(cmd, app, title, tui.AttachmentFields(), func(ctx context.Context, v map[string]string) (string, error) {
		attachmentType, err := parser.NormalizeAttachmentType(v["type"])
		if err != nil {
			return "", err
		}
		data, err := parser.NormalizeAttachmentData(attachmentType, v["data"])
		if err != nil {
			return "", err
		}
		return addAttachment(ctx, app, api.AddAttachmentRequest{TaskID: id, Type: attachmentType, Data: data})
	})
}

func addAttachment(ctx context.Context, app *App, req api.AddAttachmentRequest) (string, error) {
	attachment, err := app.Tasks.AddAttachment(ctx, req)
	if err != nil {
		return "", err
	}
	summary := attachmentSummary(models.Attachment{Type: req.Type, Data: req.Data})
	if req.File != nil {
		summary = req.File.Name
	}
	return fmt.Sprintf("📎 Added %s to task #%d: %s", attachment.Type, req.TaskID, summary), nil
}

func init() {
	showCmd.Flags().Bool("json", false, "Output as JSON")

	attachCmd.Flags().StringP("type", "t", "", "Attachment type")
	attachCmd.Flags().StringP("data", "d", "", "Attachment data")
	attachCmd.Flags().StringP("file", "f", "", "File to upload")
}
