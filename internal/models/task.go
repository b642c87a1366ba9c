package models

import (
	"fmt"
	"strings"
)

// Visibility controls who can see a task
type Visibility string

const (
	VisibilityPrivate Visibility = "Private"
	VisibilityPublic  Visibility = "Public"
	VisibilityPaid    Visibility = "Paid"
)

// Visibilities lists every visibility in display order
var Visibilities = []Visibility{VisibilityPrivate, VisibilityPublic, VisibilityPaid}

// ParseVisibility converts a case-insensitive visibility name
func ParseVisibility(s string) (Visibility, error) {
	for _, v := range Visibilities {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid visibility %q. Use: private, public or paid", s)
}

// Task is the summary shape returned by list, search and mutation endpoints
type Task struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
}

// TaskDetail is the full task returned by /tasks/full
type TaskDetail struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Visibility  Visibility   `json:"visibility"`
	Owner       Profile      `json:"owner"`
	Attachments []Attachment `json:"attachments"`
}

// Summary returns the Task part of the detail
func (d *TaskDetail) Summary() Task {
	return Task{ID: d.ID, Name: d.Name, Visibility: d.Visibility}
}

// AttachmentType is one of the fixed attachment kinds the API accepts
type AttachmentType string

const (
	AttachmentDescription AttachmentType = "Description"
	AttachmentDueDate     AttachmentType = "DueDate"
	AttachmentFile        AttachmentType = "File"
	AttachmentURL         AttachmentType = "Url"
	AttachmentText        AttachmentType = "Text"
	AttachmentTip         AttachmentType = "Tip"
	AttachmentHint        AttachmentType = "Hint"
	AttachmentWarning     AttachmentType = "Warning"
	AttachmentProgress    AttachmentType = "Progress"
	AttachmentImportance  AttachmentType = "Importance"
)

// AttachmentTypes lists every attachment kind
var AttachmentTypes = []AttachmentType{
	AttachmentDescription,
	AttachmentDueDate,
	AttachmentFile,
	AttachmentURL,
	AttachmentText,
	AttachmentTip,
	AttachmentHint,
	AttachmentWarning,
	AttachmentProgress,
	AttachmentImportance,
}

// Valid reports whether t is a known attachment kind
func (t AttachmentType) Valid() bool {
	for _, known := range AttachmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Attachment is a typed piece of data hanging off a task
type Attachment struct {
	Type   AttachmentType `json:"attachment_type"`
	Data   string         `json:"data"`
	TaskID int64          `json:"task_id"`
}
