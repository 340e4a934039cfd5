package layout

const (
	// DefaultCompactThreshold is the width, in width units, below which
	// only one board is shown.
	DefaultCompactThreshold = 768
	// DefaultCellWidth is how many width units one terminal column counts
	// for.
	DefaultCellWidth = 8
)

// Breakpoint classifies a viewport width as compact or normal.
type Breakpoint struct {
	Threshold int
	CellWidth int
}

// DefaultBreakpoint returns the standard breakpoint.
func DefaultBreakpoint() Breakpoint {
	return Breakpoint{
		Threshold: DefaultCompactThreshold,
		CellWidth: DefaultCellWidth,
	}
}

// IsCompact reports whether width (in width units) is below the threshold.
func (b Breakpoint) IsCompact(width int) bool {
	return width < b.threshold()
}

// Units converts terminal columns to width units.
func (b Breakpoint) Units(columns int) int {
	cell := b.CellWidth
	if cell <= 0 {
		cell = DefaultCellWidth
	}
	return columns * cell
}

// IsCompactColumns is IsCompact for a width given in terminal columns.
func (b Breakpoint) IsCompactColumns(columns int) bool {
	return b.IsCompact(b.Units(columns))
}

// WideColumns is the narrowest terminal, in columns, that is not compact.
func (b Breakpoint) WideColumns() int {
	cell := b.CellWidth
	if cell <= 0 {
		cell = DefaultCellWidth
	}
	return (b.threshold() + cell - 1) / cell
}

func (b Breakpoint) threshold() int {
	if b.Threshold <= 0 {
		return DefaultCompactThreshold
	}
	return b.Threshold
}

// Viewport holds the current terminal size and the compact flag derived
// from it. The zero size counts as compact until the first resize.
type Viewport struct {
	breakpoint Breakpoint
	columns    int
	rows       int
	compact    bool
}

// NewViewport creates a viewport with no size yet.
func NewViewport(b Breakpoint) *Viewport {
	return &Viewport{breakpoint: b, compact: true}
}

// Resize records a new size and reports whether the compact flag flipped.
func (v *Viewport) Resize(columns, rows int) bool {
	v.columns = columns
	v.rows = rows
	compact := v.breakpoint.IsCompactColumns(columns)
	changed := compact != v.compact
	v.compact = compact
	return changed
}

// Compact reports whether only one board fits.
func (v *Viewport) Compact() bool {
	return v.compact
}

// Size returns the last recorded size in columns and rows.
func (v *Viewport) Size() (columns, rows int) {
	return v.columns, v.rows
}

// Breakpoint returns the breakpoint in use.
func (v *Viewport) Breakpoint() Breakpoint {
	return v.breakpoint
}
