// Package styles holds the lipgloss styles of the command output. Colors adapt
// to light and dark terminals and disappear when output is not a terminal.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	text   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E2E2E2"}
	subtle = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#888888"}
	muted  = lipgloss.AdaptiveColor{Light: "#9A9A9A", Dark: "#555555"}
	accent = lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}
	green  = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD787"}
	yellow = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD787"}
	red    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF8787"}
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(text)

	// Subtitle is used for secondary headings such as zone IDs.
	Subtitle = lipgloss.NewStyle().Foreground(subtle)

	MutedText = lipgloss.NewStyle().Foreground(muted)

	// AccentText highlights domain names.
	AccentText = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

var outcomes = map[string]lipgloss.Style{
	"created": lipgloss.NewStyle().Bold(true).Foreground(green),
	"skipped": lipgloss.NewStyle().Foreground(yellow),
	"failed":  lipgloss.NewStyle().Bold(true).Foreground(red),
}

// OutcomeStyle returns the style for a reconcile outcome.
func OutcomeStyle(outcome string) lipgloss.Style {
	if s, ok := outcomes[outcome]; ok {
		return s
	}
	return Subtitle
}

// Bind returns s rendering through r, so color output follows the
// capabilities of r's writer.
func Bind(r *lipgloss.Renderer, s lipgloss.Style) lipgloss.Style {
	return s.Renderer(r)
}
