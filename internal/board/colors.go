package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Trunk line colors from the MTA palette.
var (
	colorIND8Av     = lipgloss.Color("#0062CF")
	colorIND6Av     = lipgloss.Color("#EB6800")
	colorCrosstown  = lipgloss.Color("#799534")
	colorNassau     = lipgloss.Color("#8E5C33")
	colorCanarsie   = lipgloss.Color("#7C858C")
	colorBroadway   = lipgloss.Color("#F6BC26")
	colorIRT7Av     = lipgloss.Color("#D82233")
	colorLexington  = lipgloss.Color("#009952")
	colorFlushing   = lipgloss.Color("#9A38A1")
	colorStatenIsl  = lipgloss.Color("#08179C")
	colorUnknownLn  = lipgloss.Color("#7C858C")
	colorDarkBadge  = lipgloss.Color("#000000")
	colorLightBadge = lipgloss.Color("#FFFFFF")
)

var lineColors = map[string]lipgloss.Color{
	"A": colorIND8Av, "C": colorIND8Av, "E": colorIND8Av, "H": colorIND8Av,
	"B": colorIND6Av, "D": colorIND6Av, "F": colorIND6Av, "FX": colorIND6Av, "M": colorIND6Av, "FS": colorIND6Av,
	"G": colorCrosstown,
	"L": colorCanarsie,
	"J": colorNassau, "Z": colorNassau,
	"N": colorBroadway, "Q": colorBroadway, "R": colorBroadway, "W": colorBroadway,
	"1": colorIRT7Av, "2": colorIRT7Av, "3": colorIRT7Av,
	"4": colorLexington, "5": colorLexington, "6": colorLexington, "6X": colorLexington,
	"7": colorFlushing, "7X": colorFlushing, "GS": colorFlushing,
	"SI": colorStatenIsl,
}

// LineColor returns the badge color for a line. A color sent by the API
// wins over the built-in palette.
func LineColor(line, apiColor string) lipgloss.Color {
	if apiColor != "" {
		return lipgloss.Color(apiColor)
	}
	if c, ok := lineColors[line]; ok {
		return c
	}
	return colorUnknownLn
}

// badgeForeground picks readable text for the badge background. The
// Broadway yellow is the only light trunk color.
func badgeForeground(bg lipgloss.Color) lipgloss.Color {
	if strings.EqualFold(string(bg), string(colorBroadway)) {
		return colorDarkBadge
	}
	return colorLightBadge
}
