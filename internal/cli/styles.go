// Package cli provides styled terminal output and input helpers for the spend commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💸"
	SheetIcon   = "📊"
	RobotIcon   = "🤖"
)

// Colors shared by every style; adaptive so light terminals stay readable.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#7AC74F"}
	good    = lipgloss.AdaptiveColor{Light: "#00796B", Dark: "#4ECDC4"}
	caution = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFE66D"}
	bad     = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
	muted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#8A8A8A"}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle  = lipgloss.NewStyle().Foreground(muted).Width(16)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2)

	successStyle = lipgloss.NewStyle().Foreground(good)
	warningStyle = lipgloss.NewStyle().Foreground(caution)
	errorStyle   = lipgloss.NewStyle().Foreground(bad)
	infoStyle    = lipgloss.NewStyle().Foreground(muted)
)

func status(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string { return status(successStyle, SuccessIcon, message) }

// FormatError formats an error message with icon.
func FormatError(message string) string { return status(errorStyle, ErrorIcon, message) }

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string { return status(warningStyle, WarningIcon, message) }

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string { return status(infoStyle, InfoIcon, message) }

// FormatTitle formats a title with the wallet icon.
func FormatTitle(title string) string { return status(titleStyle, WalletIcon, title) }

// FormatPrompt renders the question part of an input line.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// FormatField renders one "label value" line of a listing.
func FormatField(label, value string) string {
	return labelStyle.Render(label) + value
}

// RenderBox renders a title line over content inside a rounded border.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", content))
}
