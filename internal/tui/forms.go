package tui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/models"
	"github.com/AyloRyd/taskhub/internal/parser"
)

func validateEmail(v string) error {
	return fieldError(api.LoginRequest{Email: v, Password: "x"}.Validate(), "email")
}

func validatePassword(v string) error {
	if utf8.RuneCountInString(v) < api.MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters.", api.MinPasswordLength)
	}
	return nil
}

// fieldError narrows a validation error to one field's first message
func fieldError(err error, field string) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if msgs := apiErr.Fields[field]; len(msgs) > 0 {
		return errors.New(msgs[0])
	}
	return nil
}

// LoginFields are the sign-in form fields
func LoginFields(email string) []Field {
	return []Field{
		{Key: "email", Label: "Email", Icon: "📧", Placeholder: "you@example.com", Initial: email, Required: true, Validate: validateEmail},
		{Key: "password", Label: "Password", Icon: "🔑", Placeholder: "Your password", Required: true, Password: true},
	}
}

// RegisterFields are the sign-up form fields
func RegisterFields() []Field {
	return []Field{
		{Key: "name", Label: "Name", Icon: "👤", Placeholder: "How should we call you?", Required: true, CharLimit: 100},
		{Key: "email", Label: "Email", Icon: "📧", Placeholder: "you@example.com", Required: true, Validate: validateEmail},
		{Key: "password", Label: "Password", Icon: "🔑", Placeholder: "At least 6 characters", Required: true, Password: true, Validate: validatePassword},
		{Key: "confirm_password", Label: "Confirm password", Icon: "🔑", Placeholder: "Repeat the password", Required: true, Password: true},
	}
}

// ResetFields are the password reset form fields
func ResetFields(token string) []Field {
	return []Field{
		{Key: "token", Label: "Reset token", Icon: "🎫", Placeholder: "Token from the reset email", Initial: token, Required: true},
		{Key: "password", Label: "New password", Icon: "🔑", Placeholder: "At least 6 characters", Required: true, Password: true, Validate: validatePassword},
		{Key: "confirm_password", Label: "Confirm password", Icon: "🔑", Placeholder: "Repeat the password", Required: true, Password: true},
	}
}

func visibilityChoices() []string {
	choices := make([]string, len(models.Visibilities))
	for i, v := range models.Visibilities {
		choices[i] = string(v)
	}
	return choices
}

// TaskFields are the create-task form fields. Due date and link become
// attachments once the task exists.
func TaskFields(name string, visibility models.Visibility) []Field {
	return []Field{
		{Key: "name", Label: "Name", Icon: "📋", Placeholder: "Enter task name... (required)", Initial: name, Required: true},
		{Key: "visibility", Label: "Visibility", Icon: "👁", Initial: string(visibility), Choices: visibilityChoices()},
		{
			Key: "due", Label: "Due date", Icon: "📅",
			Placeholder: "dd/mm/yyyy, tomorrow, 3 days, 2 weeks (Enter to skip)",
			Validate: func(v string) error {
				_, err := parser.ParseDueDate(v)
				return err
			},
		},
		{
			Key: "url", Label: "Link", Icon: "🔗",
			Placeholder: "https://... (Enter to skip)",
			CharLimit:   500,
			Validate: func(v string) error {
				if !parser.IsURL(strings.TrimSpace(v)) {
					return errors.New("Use an http:// or https:// address")
				}
				return nil
			},
		},
	}
}

// EditTaskFields are the edit-task form fields
func EditTaskFields(task models.Task) []Field {
	return TaskFields(task.Name, task.Visibility)[:2]
}

// AttachmentFields are the add-attachment form fields. Files can only be
// attached from the command line.
func AttachmentFields() []Field {
	var choices []string
	for _, t := range models.AttachmentTypes {
		if t != models.AttachmentFile {
			choices = append(choices, string(t))
		}
	}
	return []Field{
		{Key: "type", Label: "Type", Icon: "🏷", Initial: string(models.AttachmentDescription), Choices: choices},
		{Key: "data", Label: "Data", Icon: "📝", Placeholder: "Text, link, due date or 0-100 progress", Required: true, CharLimit: 1000},
	}
}
