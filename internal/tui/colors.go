package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/AyloRyd/taskhub/internal/models"
)

// Color constants for the taskhub TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED"
	ColorAccentBright = "#A78BFA"

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

// VisibilityColor returns the badge color for a task visibility
func VisibilityColor(v models.Visibility) string {
	switch v {
	case models.VisibilityPublic:
		return ColorSuccess
	case models.VisibilityPaid:
		return ColorWarning
	default:
		return ColorSecondaryText
	}
}

// VisibilityBadge renders a task visibility as a colored label
func VisibilityBadge(v models.Visibility) string {
	icon := "🔒"
	switch v {
	case models.VisibilityPublic:
		icon = "🌐"
	case models.VisibilityPaid:
		icon = "💰"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(VisibilityColor(v))).Render(icon + " " + string(v))
}

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Italic(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true)
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
)
