package report

import "github.com/charmbracelet/lipgloss"

// Terminal styles for consistent output formatting across reporters.
// Lipgloss automatically degrades colors based on terminal capabilities.
var (
	// StyleCyan is used for file locations and module headers.
	StyleCyan = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	// StyleRed is used for identifiers missing from history and errors.
	StyleRed = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	// StyleYellow is used for warnings, findings and caret indicators.
	StyleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	// StyleGreen is used for success messages.
	StyleGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	// StyleDim is used for message values and provenance details.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// RenderStyle applies a lipgloss style to text when colors are enabled.
// When useColors is false, the text is returned unmodified.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}
