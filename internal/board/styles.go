package board

import "github.com/charmbracelet/lipgloss"

var (
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorGreen  = lipgloss.Color("42")
	colorBorder = lipgloss.Color("240")
)

// Styles defines how a board is drawn.
type Styles struct {
	Box       lipgloss.Style
	Station   lipgloss.Style
	Divider   lipgloss.Style
	Badge     lipgloss.Style
	Direction lipgloss.Style
	Countdown lipgloss.Style
	Arriving  lipgloss.Style
}

// DefaultStyles returns the default board styles.
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		Station: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite),

		Divider: lipgloss.NewStyle().
			Foreground(colorBorder),

		Badge: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),

		Direction: lipgloss.NewStyle().
			Foreground(colorWhite),

		Countdown: lipgloss.NewStyle().
			Foreground(colorGray),

		Arriving: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen),
	}
}

// PlainStyles returns styles without borders or colors, for plain output.
func PlainStyles() Styles {
	return Styles{
		Box:       lipgloss.NewStyle(),
		Station:   lipgloss.NewStyle(),
		Divider:   lipgloss.NewStyle(),
		Badge:     lipgloss.NewStyle().Padding(0, 1),
		Direction: lipgloss.NewStyle(),
		Countdown: lipgloss.NewStyle(),
		Arriving:  lipgloss.NewStyle(),
	}
}
