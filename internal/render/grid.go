package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/eldlog/internal/schedule"
)

// CellWidth is the number of runes drawn per hour column.
const CellWidth = 3

const (
	runeLine      = '━'
	runeVertical  = '│'
	runeCross     = '┼'
	runeDot       = '●'
	runeEmpty     = '·'
	runeBlank     = ' '
	totalsHeading = "Total"
)

// GridRows labels the lanes of a grid and carries the text printed in the
// totals column. Index 0 is row 1. Sum, when set, is printed under the
// totals column.
type GridRows struct {
	Labels [schedule.Rows]string
	Totals [schedule.Rows]string
	Sum    string
}

// Grid draws g as text: an hour header, one line per lane, and a gap line
// between lanes carrying vertical connectors.
func (t Theme) Grid(g schedule.Grid, rows GridRows) string {
	labelWidth := 0
	for _, label := range rows.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(label))
	}
	pad := strings.Repeat(" ", labelWidth+1)

	var b strings.Builder
	b.WriteString(pad)
	for c := 0; c < schedule.Columns; c++ {
		fmt.Fprintf(&b, "%-*s", CellWidth, schedule.ShortHourLabel(c))
	}
	b.WriteString(" ")
	b.WriteString(t.paint(t.Muted, totalsHeading))
	b.WriteByte('\n')

	for i := 0; i < schedule.Rows; i++ {
		row := schedule.Row(i + 1)
		label := fmt.Sprintf("%-*s", labelWidth, rows.Labels[i])
		b.WriteString(t.paint(t.Label, label))
		b.WriteByte(' ')
		for c := 0; c < schedule.Columns; c++ {
			b.WriteString(t.cell(g.At(row, c)))
		}
		b.WriteString(" ")
		b.WriteString(t.paint(t.Total, rows.Totals[i]))
		b.WriteByte('\n')

		if i == schedule.Rows-1 {
			break
		}
		gap := t.gap(g, row)
		if strings.TrimSpace(gap) == "" {
			b.WriteString(strings.TrimRight(pad, " "))
		} else {
			b.WriteString(pad)
			b.WriteString(strings.TrimRight(gap, " "))
		}
		b.WriteByte('\n')
	}
	if rows.Sum != "" {
		b.WriteString(pad)
		b.WriteString(strings.Repeat(" ", CellWidth*schedule.Columns+1))
		b.WriteString(t.paint(t.Total, rows.Sum))
		b.WriteByte('\n')
	}
	return b.String()
}

// cell draws one hour of a lane: the left third, the midpoint and the right
// third.
func (t Theme) cell(c schedule.Cell) string {
	left, right := runeBlank, runeBlank
	if c.FullLine || c.RightHalfLine {
		left = runeLine
	}
	if c.FullLine || c.LeftHalfLine {
		right = runeLine
	}

	horizontal := c.FullLine || c.LeftHalfLine || c.RightHalfLine
	var mid rune
	switch {
	case c.Dot:
		mid = runeDot
	case horizontal && c.HasVerticalConnector():
		mid = runeCross
	case horizontal:
		mid = runeLine
	case c.HasVerticalConnector():
		mid = runeVertical
	default:
		mid = runeEmpty
	}

	var b strings.Builder
	b.WriteString(t.paintRune(t.Line, left))
	switch mid {
	case runeDot:
		b.WriteString(t.paint(t.Dot, string(mid)))
	case runeVertical, runeCross:
		b.WriteString(t.paint(t.Connector, string(mid)))
	case runeLine:
		b.WriteString(t.paint(t.Line, string(mid)))
	default:
		b.WriteString(t.paint(t.Muted, string(mid)))
	}
	b.WriteString(t.paintRune(t.Line, right))
	return b.String()
}

func (t Theme) paintRune(style lipgloss.Style, r rune) string {
	if r == runeBlank {
		return " "
	}
	return t.paint(style, string(r))
}

// gap draws the line between row and the row below it.
func (t Theme) gap(g schedule.Grid, row schedule.Row) string {
	var b strings.Builder
	for c := 0; c < schedule.Columns; c++ {
		b.WriteRune(runeBlank)
		if g.At(row, c).VerticalLower {
			b.WriteString(t.paint(t.Connector, string(runeVertical)))
		} else {
			b.WriteRune(runeBlank)
		}
		b.WriteRune(runeBlank)
	}
	return b.String()
}
