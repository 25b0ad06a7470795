package utils

import (
	"fmt"
	"path/filepath"

	"github.com/fenilsonani/file-organizer/internal/ui/styles"
	"github.com/muesli/reflow/wrap"
)

const (
	// MinTerminalWidth is the minimum recommended terminal width
	MinTerminalWidth = 60
	// MinTerminalHeight is the minimum recommended terminal height
	MinTerminalHeight = 12
)

// TruncatePath shortens path to maxWidth, keeping the file name and as much of
// the leading directory as fits
func TruncatePath(path string, maxWidth int) string {
	if len(path) <= maxWidth {
		return path
	}
	if maxWidth < 10 {
		return "..."
	}

	dir, file := filepath.Split(path)
	if len(file) > maxWidth-4 {
		return "..." + file[len(file)-(maxWidth-4):]
	}

	availableForDir := maxWidth - len(file) - 4 // "..." plus separator
	if availableForDir < 6 {
		return "..." + string(filepath.Separator) + file
	}

	dir = filepath.Clean(dir)
	return dir[:availableForDir] + "..." + string(filepath.Separator) + file
}

// IsTerminalTooSmall checks if the terminal is below minimum recommended size
func IsTerminalTooSmall(width, height int) bool {
	return width < MinTerminalWidth || height < MinTerminalHeight
}

// GetSizeWarningBanner returns a warning banner if terminal is too small.
// Unknown sizes (zero) produce no banner.
func GetSizeWarningBanner(width, height int) string {
	if width == 0 || height == 0 || !IsTerminalTooSmall(width, height) {
		return ""
	}

	warning := fmt.Sprintf("Terminal too small! Recommended: %dx%d or larger", MinTerminalWidth, MinTerminalHeight)
	warning = styles.WarningStyle.Render(warning) +
		styles.DimStyle.Render(" (current: ") +
		styles.WarningStyle.Render(fmt.Sprintf("%dx%d", width, height)) +
		styles.DimStyle.Render(")")

	return warning + "\n\n"
}

// WrapText hard-wraps s to width columns. A width of zero leaves s unchanged.
func WrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(s, width)
}
