// Package output provides terminal formatting for progress reports.
package output

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color codes
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Red       = "\033[31m"
	Green     = "\033[32m"
	Yellow    = "\033[33m"
	Blue      = "\033[34m"
	Magenta   = "\033[35m"
	Cyan      = "\033[36m"
	White     = "\033[37m"
	BoldRed   = "\033[1;31m"
	BoldGreen = "\033[1;32m"
)

var useColor = true

// DisableColor disables colored output.
func DisableColor() {
	useColor = false
}

// EnableColor enables colored output.
func EnableColor() {
	useColor = true
}

// IsColorEnabled returns whether color output is enabled.
func IsColorEnabled() bool {
	return useColor && isTerminal()
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Color applies a color to text if color is enabled.
func Color(text, color string) string {
	if !IsColorEnabled() {
		return text
	}
	return color + text + Reset
}

// SeverityColor returns the color for an alert severity.
func SeverityColor(severity string) string {
	switch strings.ToUpper(severity) {
	case "CRITICAL":
		return BoldRed
	case "WARNING":
		return Yellow
	default:
		return White
	}
}

// ScheduleColor returns the color for a schedule status.
func ScheduleColor(status string) string {
	switch strings.ToUpper(status) {
	case "ON_SCHEDULE":
		return Green
	case "MILD_DELAY":
		return Yellow
	case "CRITICAL_DELAY":
		return BoldRed
	default:
		return White
	}
}

// ProgressBar creates a visual progress bar.
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	// Color the bar based on completion
	var color string
	switch {
	case percent >= 80:
		color = Green
	case percent >= 50:
		color = Yellow
	default:
		color = Red
	}

	return Color("["+bar+"]", color)
}

// Header creates a formatted header line.
func Header(text string, width int) string {
	padding := (width - displayWidth(text) - 2) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat("=", padding) + " " + text + " " + strings.Repeat("=", padding)
	for displayWidth(line) < width {
		line += "="
	}
	return Color(line, Bold)
}

// SubHeader creates a formatted subheader line.
func SubHeader(text string, width int) string {
	padding := (width - displayWidth(text) - 2) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat("-", padding) + " " + text + " " + strings.Repeat("-", padding)
	for displayWidth(line) < width {
		line += "-"
	}
	return Color(line, Dim)
}

// Checkmark returns a colored checkmark or X.
func Checkmark(ok bool) string {
	if ok {
		return Color("✓", Green)
	}
	return Color("✗", Red)
}

// StateIcon returns a colored icon for a group alert state.
func StateIcon(state string) string {
	switch strings.ToUpper(state) {
	case "OK":
		return Color("✓", Green)
	case "BELOW_THRESHOLD":
		return Color("✗", Red)
	default:
		return "?"
	}
}

// SeverityIcon returns a colored icon for an alert severity.
func SeverityIcon(severity string) string {
	switch strings.ToUpper(severity) {
	case "WARNING":
		return Color("⚠", Yellow)
	case "CRITICAL":
		return Color("✗", BoldRed)
	default:
		return "?"
	}
}

// FormatPercent formats a percentage with color.
func FormatPercent(percent float64) string {
	text := fmt.Sprintf("%.2f%%", percent)
	var color string
	switch {
	case percent >= 80:
		color = Green
	case percent >= 50:
		color = Yellow
	default:
		color = Red
	}
	return Color(text, color)
}

// FormatDelta formats a signed percentage-point difference.
func FormatDelta(delta float64) string {
	text := fmt.Sprintf("%+.2f pp", delta)
	if delta < 0 {
		return Color(text, Red)
	}
	return Color(text, Green)
}

// Truncate truncates text to a maximum number of runes with ellipsis.
// Group and activity names carry accents, so widths count runes.
func Truncate(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-3]) + "..."
}

// PadRight pads text to a minimum display width.
func PadRight(text string, width int) string {
	w := displayWidth(text)
	if w >= width {
		return text
	}
	return text + strings.Repeat(" ", width-w)
}

// PadLeft pads text to a minimum display width.
func PadLeft(text string, width int) string {
	w := displayWidth(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", width-w) + text
}
