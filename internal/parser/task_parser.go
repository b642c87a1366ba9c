package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/AyloRyd/taskhub/internal/models"
)

// ParsedTask represents a task parsed from natural language
type ParsedTask struct {
	Name       string
	Visibility models.Visibility
	DueDate    *time.Time
	URLs       []string
	Errors     []string
}

var (
	visibilityRegex = regexp.MustCompile(`(?:^|\s)\+([a-zA-Z]+)\b`)
	dueRegex        = regexp.MustCompile(`(?:^|\s)due:([^\s]+)`)
	urlRegex        = regexp.MustCompile(`https?://[^\s]+`)
)

// ParseTask extracts metadata from a task name using natural syntax
// Syntax: "Write report +public due:3days https://example.com/brief"
func ParseTask(input string) ParsedTask {
	result := ParsedTask{
		Visibility: models.VisibilityPrivate,
		URLs:       []string{},
		Errors:     []string{},
	}

	// URLs first so their query strings are not mistaken for other tokens
	for _, u := range urlRegex.FindAllString(input, -1) {
		u = strings.TrimRight(u, ".,;)")
		if IsURL(u) {
			result.URLs = append(result.URLs, u)
		} else {
			result.Errors = append(result.Errors, "Invalid URL: "+u)
		}
	}
	input = urlRegex.ReplaceAllString(input, " ")

	// Visibility (+private, +public, +paid); the last one wins
	for _, match := range visibilityRegex.FindAllStringSubmatch(input, -1) {
		v, err := models.ParseVisibility(match[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid visibility '"+match[1]+"'. Use: +private, +public, or +paid")
			continue
		}
		result.Visibility = v
	}
	input = visibilityRegex.ReplaceAllString(input, " ")

	// Due date (due:3days, due:15/12/2026, due:tomorrow)
	if matches := dueRegex.FindStringSubmatch(input); len(matches) > 1 {
		due, err := ParseDueDate(matches[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+matches[1]+"': "+err.Error())
		} else {
			result.DueDate = due
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	result.Name = strings.Join(strings.Fields(input), " ")
	if result.Name == "" {
		result.Errors = append(result.Errors, "Task name is required")
	}

	return result
}

// Attachments returns the attachments implied by the parsed metadata, in the
// order they should be added
func (p ParsedTask) Attachments() []models.Attachment {
	var out []models.Attachment
	if p.DueDate != nil {
		out = append(out, models.Attachment{Type: models.AttachmentDueDate, Data: DueDateData(*p.DueDate)})
	}
	for _, u := range p.URLs {
		out = append(out, models.Attachment{Type: models.AttachmentURL, Data: u})
	}
	return out
}
