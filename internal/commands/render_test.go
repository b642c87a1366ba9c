package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/AyloRyd/taskhub/internal/api"
	"github.com/AyloRyd/taskhub/internal/bindings"
	"github.com/AyloRyd/taskhub/internal/models"
)

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"#7", 7, false},
		{" 3 ", 3, false},
		{"0", 0, true},
		{"-4", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseTaskID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTaskID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTaskID(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestRenderTaskTableTruncatesNames(t *testing.T) {
	var buf bytes.Buffer
	renderTaskTable(&buf, []models.Task{
		{ID: 1, Name: "Short", Visibility: models.VisibilityPublic},
		{ID: 2, Name: strings.Repeat("ж", 60), Visibility: models.VisibilityPaid},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header, rule and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[3], strings.Repeat("ж", 45)+"...") {
		t.Errorf("Expected a truncated name, got %q", lines[3])
	}
	if !strings.HasSuffix(lines[3], "Paid") {
		t.Errorf("Expected visibility at the end of the row, got %q", lines[3])
	}
}

func TestNewTaskListJSONNeverNull(t *testing.T) {
	var buf bytes.Buffer
	if err := renderJSON(&buf, newTaskListJSON(nil)); err != nil {
		t.Fatalf("renderJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"tasks": []`) {
		t.Errorf("Expected an empty array, got %s", buf.String())
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "validation",
			err:  api.NewValidationError(map[string][]string{"email": {"Invalid email."}, "name": {"Field is required."}}),
			want: []string{"❌ Error: invalid input", "   • email: Invalid email.", "   • name: Field is required."},
		},
		{
			name: "signed out",
			err:  bindings.ErrSignedOut,
			want: []string{"taskhub login"},
		},
		{
			name: "network",
			err:  &api.Error{Kind: api.KindNetwork, Description: "could not reach the TaskHub API", Err: errors.New("connection refused")},
			want: []string{"could not reach", "--api-url"},
		},
		{
			name: "plain",
			err:  errors.New("boom"),
			want: []string{"❌ Error: boom"},
		},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		printError(&buf, tt.err)
		for _, w := range tt.want {
			if !strings.Contains(buf.String(), w) {
				t.Errorf("%s: expected %q in %q", tt.name, w, buf.String())
			}
		}
	}
}

func TestAttachmentSummary(t *testing.T) {
	if got := attachmentSummary(models.Attachment{Type: models.AttachmentProgress, Data: "40"}); got != "40%" {
		t.Errorf("Expected 40%%, got %q", got)
	}
	if got := attachmentSummary(models.Attachment{Type: models.AttachmentText, Data: "note"}); got != "note" {
		t.Errorf("Expected note, got %q", got)
	}
}

func TestRenderProfileMarksAdmins(t *testing.T) {
	var buf bytes.Buffer
	renderProfile(&buf, &models.Profile{PID: "1", Name: "Ada", Role: models.RoleAdmin, IsVerified: true})
	if !strings.Contains(buf.String(), "Admin (administrator)") {
		t.Errorf("Expected an admin marker, got %q", buf.String())
	}

	buf.Reset()
	renderProfile(&buf, &models.Profile{PID: "2", Name: "Bob", Role: models.RoleUser})
	if strings.Contains(buf.String(), "administrator") {
		t.Errorf("Regular users must not be marked, got %q", buf.String())
	}
}
