package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DueDateLayout is how DueDate attachment data is stored
const DueDateLayout = time.RFC3339

var (
	dateRegex     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDateRegex  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	relativeRegex = regexp.MustCompile(`^(\d+)\s*(h|hour|hours|d|day|days|w|week|weeks)$`)
)

// ParseDueDate parses various due date formats
// Supported formats:
// - dd/mm/yyyy (e.g., "15/12/2026")
// - yyyy-mm-dd (e.g., "2026-12-15")
// - today, tomorrow
// - X days (e.g., "3 days", "3days", "3d")
// - X hours (e.g., "24 hours", "24h")
// - X weeks (e.g., "2 weeks", "2w")
func ParseDueDate(input string) (*time.Time, error) {
	return parseDueDateAt(input, time.Now())
}

func parseDueDateAt(input string, now time.Time) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	// RFC3339 passes through so stored values can be re-parsed
	if due, err := time.Parse(DueDateLayout, input); err == nil {
		return &due, nil
	}
	input = strings.ToLower(input)

	switch input {
	case "today":
		due := endOfDay(now, 0)
		return &due, nil
	case "tomorrow":
		due := endOfDay(now, 1)
		return &due, nil
	}

	if m := dateRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[3], m[2], m[1], now)
	}
	if m := isoDateRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[1], m[2], m[3], now)
	}

	if due, err := parseRelativeTime(input, now); err == nil {
		return due, nil
	} else if relativeRegex.MatchString(input) {
		return nil, err
	}

	return nil, fmt.Errorf("invalid date format. Use: dd/mm/yyyy, yyyy-mm-dd, today, tomorrow, X days, X hours, or X weeks")
}

func buildDate(yearStr, monthStr, dayStr string, now time.Time) (*time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	if day < 1 || day > 31 {
		return nil, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12")
	}
	if year < now.Year()-1 || year > now.Year()+100 {
		return nil, fmt.Errorf("year must be between %d and %d", now.Year()-1, now.Year()+100)
	}

	due := time.Date(year, time.Month(month), day, 23, 59, 59, 0, now.Location())

	// time.Date normalizes 31/02 into March
	if due.Day() != day || due.Month() != time.Month(month) {
		return nil, fmt.Errorf("invalid date")
	}

	return &due, nil
}

func parseRelativeTime(input string, now time.Time) (*time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return nil, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "h", "hour", "hours":
		if amount < 1 || amount > 8760 {
			return nil, fmt.Errorf("hours must be between 1 and 8760")
		}
		due := now.Add(time.Duration(amount) * time.Hour)
		return &due, nil

	case "d", "day", "days":
		if amount < 1 || amount > 365 {
			return nil, fmt.Errorf("days must be between 1 and 365")
		}
		due := endOfDay(now, amount)
		return &due, nil

	case "w", "week", "weeks":
		if amount < 1 || amount > 52 {
			return nil, fmt.Errorf("weeks must be between 1 and 52")
		}
		due := endOfDay(now, amount*7)
		return &due, nil

	default:
		return nil, fmt.Errorf("unsupported time unit")
	}
}

func endOfDay(now time.Time, addDays int) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	return today.AddDate(0, 0, addDays)
}

// DueDateData formats a due date as attachment data
func DueDateData(due time.Time) string {
	return due.Format(DueDateLayout)
}

// FormatDueDate renders DueDate attachment data for display. Data that is not
// a date is returned unchanged.
func FormatDueDate(data string) string {
	due, err := time.Parse(DueDateLayout, strings.TrimSpace(data))
	if err != nil {
		return data
	}
	return formatDueDateAt(due, time.Now())
}

func formatDueDateAt(due, now time.Time) string {
	due = due.In(now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	daysDiff := int(dueDay.Sub(today).Hours() / 24)

	// Always show the actual date to avoid confusion
	dateStr := due.Format("02/01/2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}
