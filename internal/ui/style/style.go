// Package style holds the colors and status icons shared by the renderers and the log handler.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent  = lipgloss.Color("#8B5CF6")
	Muted   = lipgloss.Color("#667085")
	Bright  = lipgloss.Color("#FFFFFF")
	Success = lipgloss.Color("#22A06B")
	Failure = lipgloss.Color("#D93025")
	Caution = lipgloss.Color("#F59E0B")
)

// Panel state icons.
const (
	Pending = "○"
	Running = "●"
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Marker  = "==>"
)

// StatusIcon returns the icon for a panel that is running, succeeded or failed.
func StatusIcon(completed bool, err error) string {
	switch {
	case !completed:
		return Running
	case err != nil:
		return Cross
	default:
		return Check
	}
}
