package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/nightdriver/ndsmon/internal/rows"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// HealthColor maps a health tag to its traffic-light color. A blank tag
// uses the primary text color.
func HealthColor(h rows.Health) lipgloss.Color {
	switch h {
	case rows.HealthGood:
		return ColorSuccess
	case rows.HealthWarning:
		return ColorWarning
	case rows.HealthDanger:
		return ColorError
	default:
		return ColorPrimary
	}
}

// HealthStyle returns a foreground style for a health tag.
func HealthStyle(h rows.Health) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(HealthColor(h))
}

// SuccessStyle renders success messages.
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorSuccess)
}

// ErrorStyle renders failures.
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorError)
}

// WarningStyle renders warnings.
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorWarning)
}

// MutedStyle renders secondary text.
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// DisableColors switches the default renderer to plain ASCII output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
