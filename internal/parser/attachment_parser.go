package parser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/AyloRyd/taskhub/internal/models"
)

// Short names accepted on the command line
var attachmentAliases = map[string]models.AttachmentType{
	"desc":    models.AttachmentDescription,
	"due":     models.AttachmentDueDate,
	"duedate": models.AttachmentDueDate,
	"link":    models.AttachmentURL,
	"note":    models.AttachmentText,
}

// NormalizeAttachmentType maps user input like "url", "due-date" or "Tip" to
// the API's attachment type
func NormalizeAttachmentType(input string) (models.AttachmentType, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	if key == "" {
		return "", fmt.Errorf("attachment type is required")
	}

	for _, t := range models.AttachmentTypes {
		if strings.ToLower(string(t)) == key {
			return t, nil
		}
	}
	if t, ok := attachmentAliases[key]; ok {
		return t, nil
	}

	names := make([]string, len(models.AttachmentTypes))
	for i, t := range models.AttachmentTypes {
		names[i] = string(t)
	}
	return "", fmt.Errorf("unknown attachment type %q. Use one of: %s", input, strings.Join(names, ", "))
}

// NormalizeAttachmentData checks data against its type and returns the form
// sent to the API. DueDate data is converted to RFC3339.
func NormalizeAttachmentData(t models.AttachmentType, data string) (string, error) {
	data = strings.TrimSpace(data)

	switch t {
	case models.AttachmentURL:
		if !IsURL(data) {
			return "", fmt.Errorf("invalid URL %q. Use an http:// or https:// address", data)
		}
	case models.AttachmentDueDate:
		due, err := ParseDueDate(data)
		if err != nil {
			return "", err
		}
		if due == nil {
			return "", fmt.Errorf("due date is required")
		}
		return DueDateData(*due), nil
	case models.AttachmentProgress:
		n, err := strconv.Atoi(strings.TrimSuffix(data, "%"))
		if err != nil || n < 0 || n > 100 {
			return "", fmt.Errorf("progress must be a number between 0 and 100")
		}
		return strconv.Itoa(n), nil
	case models.AttachmentFile:
		// The file itself carries the content; data is an optional caption
		return data, nil
	}

	if data == "" {
		return "", fmt.Errorf("%s attachment needs data", t)
	}
	return data, nil
}

// IsURL reports whether s is an absolute http(s) URL
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
