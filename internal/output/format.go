// Package output provides terminal formatting and export of the assignment
// grid.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/pwc-dv/dvmap/internal/intercept"
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

// stageColors follows the order of the heatmap palette as closely as the
// 8-color terminal allows.
var stageColors = map[intercept.Code]string{
	intercept.CommunityServices: Blue,
	intercept.LawEnforcement:    Yellow,
	intercept.DetentionHearings: Red,
	intercept.JailsCourts:       Cyan,
	intercept.Reentry:           Green,
	intercept.CommCorrections:   Magenta,
}

// StageColor returns the terminal color for a stage code.
func StageColor(code intercept.Code) string {
	if c, ok := stageColors[code]; ok {
		return c
	}
	return White
}

// CoverageColor returns the color for a share of providers at a stage.
// Stages reached by few providers are the gaps worth flagging.
func CoverageColor(percent float64) string {
	switch {
	case percent >= 50:
		return Green
	case percent >= 20:
		return Yellow
	default:
		return Red
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
	return Color("["+bar+"]", CoverageColor(percent))
}

// Header creates a formatted header line.
func Header(text string, width int) string {
	padding := (width - len(text) - 2) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat("=", padding) + " " + text + " " + strings.Repeat("=", padding)
	// Ensure exact width
	for len(line) < width {
		line += "="
	}
	return Color(line, Bold)
}

// Mark returns the cell symbol for an assignment.
func Mark(code intercept.Code, assigned bool) string {
	if assigned {
		return Color("●", StageColor(code))
	}
	return Color("·", Dim)
}

// Checkmark returns a colored checkmark or X.
func Checkmark(ok bool) string {
	if ok {
		return Color("✓", Green)
	}
	return Color("✗", Red)
}

// FormatPercent formats a percentage with color.
func FormatPercent(percent float64) string {
	return Color(fmt.Sprintf("%.1f%%", percent), CoverageColor(percent))
}

// Truncate truncates text to a maximum width with ellipsis.
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
	return padToWidth(text, width)
}
