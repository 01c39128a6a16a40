package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#EEEEEE"}).
			Bold(true)
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"})
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"})
	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E57373"}).
			Bold(true)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"})
)

// Header renders a bold title line.
func Header(s string) string { return headerStyle.Render(s) }

// Success renders s in the success color.
func Success(s string) string { return successStyle.Render(s) }

// Warning renders s in the warning color.
func Warning(s string) string { return warningStyle.Render(s) }

// Failure renders s in the failure color.
func Failure(s string) string { return failureStyle.Render(s) }

// Muted renders s in a dim color.
func Muted(s string) string { return mutedStyle.Render(s) }

// Status renders a one-line run status: green when nothing failed, red
// otherwise.
func Status(failures int, text string) string {
	if failures > 0 {
		return Failure("✗ " + text)
	}
	return Success("✓ " + text)
}
