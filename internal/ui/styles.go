package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorValue  = 250 // light gray
	colorMuted  = 245 // medium gray
	colorAlert  = 167 // red
	colorOK     = 114 // green
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color. Used for selected row
// markers and column headers.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color. Used for timestamps and
// empty cells.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderValue returns s styled as a cell value (light gray).
func RenderValue(s string) string { return render(colorValue, s) }

// RenderType colors an event type string: errors red, everything else green.
func RenderType(s string) string {
	if s == "error" {
		return render(colorAlert, s)
	}
	return render(colorOK, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
