// Package board renders the arrivals for one stop as a terminal board.
package board

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/thevedantmod/stand-clear/internal/model"
)

// DefaultWidth is the inner width of a board in terminal columns.
const DefaultWidth = 40

const countdownWidth = 8

// Row is one arrival as it appears on the board.
type Row struct {
	Line      string
	Direction string
	Countdown string
	Arriving  bool
	Color     lipgloss.Color
	// Divider is set on every row except the last.
	Divider bool
}

// Layout is the structure of a board before styling.
type Layout struct {
	Station string
	Rows    []Row
}

// Build lays out the arrivals in input order. ok is false when there is
// nothing to show, in which case no board is rendered at all.
func Build(arrivals []model.Arrival) (Layout, bool) {
	if len(arrivals) == 0 {
		return Layout{}, false
	}
	l := Layout{
		Station: arrivals[0].FriendlyStop,
		Rows:    make([]Row, 0, len(arrivals)),
	}
	for i, a := range arrivals {
		l.Rows = append(l.Rows, Row{
			Line:      a.Line,
			Direction: a.DestinationDirection,
			Countdown: Countdown(a.TimeToArrival),
			Arriving:  IsArriving(a.TimeToArrival),
			Color:     LineColor(a.Line, a.Color),
			Divider:   i != len(arrivals)-1,
		})
	}
	return l, true
}

// Render draws the board for arrivals at the given inner width. It returns
// the empty string when there are no arrivals.
func Render(arrivals []model.Arrival, width int, styles Styles) string {
	l, ok := Build(arrivals)
	if !ok {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}

	lines := []string{
		styles.Station.Render(truncate(l.Station, width)),
		styles.Divider.Render(strings.Repeat("━", width)),
	}
	for _, row := range l.Rows {
		lines = append(lines, renderRow(row, width, styles))
		if row.Divider {
			lines = append(lines, styles.Divider.Render(strings.Repeat("─", width)))
		}
	}
	return styles.Box.Render(strings.Join(lines, "\n"))
}

func renderRow(row Row, width int, styles Styles) string {
	badge := styles.Badge.
		Background(row.Color).
		Foreground(badgeForeground(row.Color)).
		Render(row.Line)

	countStyle := styles.Countdown
	if row.Arriving {
		countStyle = styles.Arriving
	}
	count := countStyle.Width(countdownWidth).Align(lipgloss.Right).Render(row.Countdown)

	dirWidth := width - lipgloss.Width(badge) - countdownWidth - 2
	if dirWidth < 1 {
		dirWidth = 1
	}
	dir := styles.Direction.Width(dirWidth).Render(truncate(row.Direction, dirWidth))

	return lipgloss.JoinHorizontal(lipgloss.Center, badge, " ", dir, " ", count)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
