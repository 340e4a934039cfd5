package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
	colorBorder = lipgloss.Color("240")
	colorScreen = lipgloss.Color("236")
)

// Styles defines the visual styles for the dashboard chrome.
type Styles struct {
	Box     lipgloss.Style
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Faint   lipgloss.Style
	HelpBar lipgloss.Style

	// Placeholder cells shown instead of a board.
	Loading lipgloss.Style
	Error   lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGray),

		Muted: lipgloss.NewStyle().
			Foreground(colorGray),

		Faint: lipgloss.NewStyle().
			Faint(true),

		HelpBar: lipgloss.NewStyle().
			Foreground(colorGray),

		Loading: lipgloss.NewStyle().
			Foreground(colorGray).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorScreen).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(colorRed).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorScreen).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(colorGreen),
	}
}
