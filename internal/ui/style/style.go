// Package style provides the colors and icons shared by every terminal writer.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent  = lipgloss.Color("#7C3AED")
	Muted   = lipgloss.Color("#6B7280")
	Success = lipgloss.Color("#16A34A")
	Failure = lipgloss.Color("#DC2626")
	Caution = lipgloss.Color("#D97706")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Bullet  = "-"
)

// Heading renders s in the accent color for section titles such as
// "Lock file operations".
func Heading(s string) string {
	return lipgloss.NewStyle().Foreground(Accent).Bold(true).Render(s)
}
