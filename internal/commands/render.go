package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/parser"
	"github.com/AyloRyd/taskhub/internal/tui"
)

// taskListJSON is the --json shape of ls and search
type taskListJSON struct {
	Query string        `json:"query,omitempty"`
	Owner string        `json:"owner,omitempty"`
	Count int           `json:"count"`
	Tasks []models.Task `json:"tasks"`
}

func newTaskListJSON(tasks []models.Task) taskListJSON {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return taskListJSON{Count: len(tasks), Tasks: tasks}
}

// renderJSON writes v as indented JSON
func renderJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(jsonBytes))
	return nil
}

// renderTaskTable outputs tasks as a fixed-width table
func renderTaskTable(w io.Writer, tasks []models.Task) {
	// ID(6) NAME(50) VISIBILITY = 70 chars with separators
	fmt.Fprintf(w, "%-6s %-50s %s\n", "ID", "NAME", "VISIBILITY")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for _, task := range tasks {
		fmt.Fprintf(w, "%-6d %-50s %s\n", task.ID, truncateName(task.Name, 48), task.Visibility)
	}
}

func truncateName(name string, max int) string {
	if utf8.RuneCountInString(name) <= max {
		return name
	}
	return string([]rune(name)[:max-3]) + "..."
}

// renderTaskDetail prints a task with its owner and attachments
func renderTaskDetail(w io.Writer, detail *models.TaskDetail) {
	fmt.Fprintf(w, "📋 #%d %s  %s\n", detail.ID, detail.Name, tui.VisibilityBadge(detail.Visibility))
	if detail.Owner.PID != "" {
		fmt.Fprintf(w, "👤 %s (%s)\n", detail.Owner.Name, detail.Owner.PID)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, tui.RenderAttachments(detail.Attachments, 76))
	fmt.Fprintln(w)
}

// attachmentSummary is the one-line form of an attachment's data
func attachmentSummary(a models.Attachment) string {
	switch a.Type {
	case models.AttachmentDueDate:
		return parser.FormatDueDate(a.Data)
	case models.AttachmentProgress:
		return a.Data + "%"
	}
	return truncateName(a.Data, 60)
}

// parseTaskID parses a positive task ID argument
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}
