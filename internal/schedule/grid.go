// Package schedule lays duty segments out on the 4x24 grid of the Driver's
// Daily Log.
//
// Render is a pure function: the grid is derived fresh from the segment
// list on every call and has no state of its own. Malformed segments are
// never rejected; whatever cannot be located on the grid is simply not
// drawn.
package schedule

const (
	// Rows is the number of duty lanes on the grid.
	Rows = 4
	// Columns is the number of hour columns on the grid.
	Columns = 24
)

// Row identifies a duty lane, 1 through Rows.
type Row int

// NoRow marks the absence of a following segment.
const NoRow Row = 0

// Valid reports whether r names a lane on the grid.
func (r Row) Valid() bool {
	return r >= 1 && r <= Rows
}

// Segment is a contiguous block of time in one lane, from the hour column
// Start to the hour column End. Next is the lane of the chronologically
// following segment, or NoRow when this is the last one of the day.
type Segment struct {
	Row   Row `json:"row"`
	Start int `json:"start"`
	End   int `json:"end"`
	Next  Row `json:"next,omitempty"`
}

// HasNext reports whether the segment hands over to another one.
func (s Segment) HasNext() bool {
	return s.Next != NoRow
}

// Direction is the way a vertical connector leaves its origin cell.
type Direction uint8

const (
	// DirectionNone is the zero value for cells no connector leaves from.
	DirectionNone Direction = iota
	// DirectionDown runs from the cell midpoint towards higher rows.
	DirectionDown
	// DirectionUp runs from the cell midpoint towards lower rows.
	DirectionUp
)

func (d Direction) String() string {
	switch d {
	case DirectionDown:
		return "down"
	case DirectionUp:
		return "up"
	default:
		return "none"
	}
}

// Connector describes a vertical transition leaving a cell. Span is the
// number of row heights it covers.
type Connector struct {
	Direction Direction `json:"direction,omitempty"`
	Span      int       `json:"span,omitempty"`
}

// Cell holds the drawing flags of one row/column intersection.
//
// LeftHalfLine is set where a segment starts: its stroke begins at the
// midpoint and runs to the right edge. RightHalfLine is set where a
// segment ends: its stroke arrives from the left edge and stops at the
// midpoint. VerticalUpper and VerticalLower are the halves of a vertical
// stroke above and below the midpoint.
type Cell struct {
	Dot           bool      `json:"dot,omitempty"`
	LeftHalfLine  bool      `json:"left_half_line,omitempty"`
	RightHalfLine bool      `json:"right_half_line,omitempty"`
	FullLine      bool      `json:"full_line,omitempty"`
	VerticalUpper bool      `json:"vertical_upper,omitempty"`
	VerticalLower bool      `json:"vertical_lower,omitempty"`
	Connector     Connector `json:"connector,omitzero"`
}

// HasVerticalConnector reports whether any vertical stroke crosses the cell.
func (c Cell) HasVerticalConnector() bool {
	return c.VerticalUpper || c.VerticalLower
}

// Empty reports whether nothing is drawn in the cell.
func (c Cell) Empty() bool {
	return c == Cell{}
}

// Grid is the rendered 4x24 schedule. Index it through At; the zero Grid is
// blank.
type Grid [Rows][Columns]Cell

// At returns the cell for lane r and hour column c. Coordinates off the
// grid yield an empty cell.
func (g Grid) At(r Row, c int) Cell {
	if !r.Valid() || c < 0 || c >= Columns {
		return Cell{}
	}
	return g[r-1][c]
}

// Blank reports whether no cell carries a mark.
func (g Grid) Blank() bool {
	return g == Grid{}
}

// Render derives the grid for segments. Every segment is placed on its own
// lane; the caller is responsible for ordering and for supplying sane
// coordinates.
func Render(segments []Segment) Grid {
	var g Grid
	for _, seg := range segments {
		if !seg.Row.Valid() {
			continue
		}
		for c := 0; c < Columns; c++ {
			markCell(&g[seg.Row-1][c], seg, c)
		}
		if seg.End >= 0 && seg.End < Columns {
			connect(&g, seg)
		}
	}
	return g
}

func markCell(cell *Cell, seg Segment, c int) {
	if seg.Start == c || seg.End == c {
		cell.Dot = true
	}
	// A zero-width segment is a lone dot.
	if seg.Start == seg.End {
		return
	}
	if seg.Start == c {
		cell.LeftHalfLine = true
	}
	if seg.End == c {
		cell.RightHalfLine = true
	}
	if seg.Start < c && c < seg.End {
		cell.FullLine = true
	}
}

func connect(g *Grid, seg Segment) {
	if !seg.HasNext() || seg.Next == seg.Row {
		return
	}

	from, to := seg.Row, seg.Next
	dir := DirectionDown
	if to < from {
		dir = DirectionUp
	}
	span := int(to - from)
	if span < 0 {
		span = -span
	}

	c := seg.End
	origin := &g[from-1][c]
	origin.Connector = Connector{Direction: dir, Span: span}

	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	// Only lanes on the grid are drawn; an off-grid end keeps the stroke
	// running to the grid edge.
	lo = max(lo, NoRow)
	hi = min(hi, Rows+1)
	for r := lo; r <= hi; r++ {
		if !r.Valid() {
			continue
		}
		cell := &g[r-1][c]
		if r != lo {
			cell.VerticalUpper = true
		}
		if r != hi {
			cell.VerticalLower = true
		}
	}
}
