// Package styles holds the lipgloss styles shared by the menu and the reports.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#7C3AED")
	soft    = lipgloss.Color("#A78BFA")
	green   = lipgloss.Color("#10B981")
	amber   = lipgloss.Color("#F59E0B")
	red     = lipgloss.Color("#EF4444")
	blue    = lipgloss.Color("#3B82F6")
	dimGray = lipgloss.Color("#9CA3AF")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	SubtitleStyle = lipgloss.NewStyle().Foreground(soft)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	// Report fields
	FilePathStyle = lipgloss.NewStyle().Foreground(blue)
	FileSizeStyle = lipgloss.NewStyle().Foreground(amber)
	CategoryStyle = lipgloss.NewStyle().Italic(true).Foreground(soft)

	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(red)
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(amber)

	HelpStyle = lipgloss.NewStyle().Italic(true).Foreground(dimGray)
	DimStyle  = lipgloss.NewStyle().Foreground(dimGray)
)

// Cursor renders the menu cursor for the selected row
func Cursor(selected bool) string {
	if selected {
		return SelectedStyle.Render("▸ ")
	}
	return "  "
}
