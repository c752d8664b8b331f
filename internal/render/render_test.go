package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/logsheet"
	"github.com/faizmokh/eldlog/internal/recap"
	"github.com/faizmokh/eldlog/internal/schedule"
)

var testRows = GridRows{
	Labels: [schedule.Rows]string{"Off", "SB", "D", "ON"},
	Totals: [schedule.Rows]string{"2.00", "", "1.00", ""},
}

// lane is a row label padded to the widest label plus the separator.
func lane(label string) string {
	return fmt.Sprintf("%-3s ", label)
}

func emptyCells(n int) string {
	return strings.Repeat(" · ", n)
}

func TestGridDrawsLinesDotsAndConnectors(t *testing.T) {
	g := schedule.Render([]schedule.Segment{
		{Row: 1, Start: 0, End: 2, Next: 3},
		{Row: 3, Start: 2, End: 3},
	})

	lines := strings.Split(Plain().Grid(g, testRows), "\n")
	require.Len(t, lines, 9)

	assert.True(t, strings.HasPrefix(lines[0], "    M  1  2  3  "), "header %q", lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "11  Total"), "header %q", lines[0])

	assert.Equal(t, lane("Off")+" ●━━━━━● "+emptyCells(21)+" 2.00", lines[1])
	assert.Equal(t, "    "+"       │", lines[2])
	assert.Equal(t, lane("SB")+emptyCells(2)+" │ "+emptyCells(21)+" ", lines[3])
	assert.Equal(t, "    "+"       │", lines[4])
	assert.Equal(t, lane("D")+emptyCells(2)+" ●━━● "+emptyCells(20)+" 1.00", lines[5])
	assert.Equal(t, "", lines[6])
	assert.Equal(t, lane("ON")+emptyCells(24)+" ", lines[7])
	assert.Equal(t, "", lines[8])
}

func TestGridCrossesLineWithConnector(t *testing.T) {
	var g schedule.Grid
	g[1][5] = schedule.Cell{FullLine: true, VerticalUpper: true, VerticalLower: true}

	lines := strings.Split(Plain().Grid(g, testRows), "\n")
	assert.Contains(t, lines[3], "━┼━")
}

func TestGridBlank(t *testing.T) {
	out := Plain().Grid(schedule.Grid{}, GridRows{})
	assert.NotContains(t, out, "●")
	assert.NotContains(t, out, "━")
	assert.Equal(t, 4, strings.Count(out, emptyCells(24)))
}

func TestGridSumLine(t *testing.T) {
	rows := testRows
	rows.Sum = "24.00"
	lines := strings.Split(strings.TrimRight(Plain().Grid(schedule.Grid{}, rows), "\n"), "\n")
	last := lines[len(lines)-1]
	assert.Equal(t, strings.Repeat(" ", 4+CellWidth*schedule.Columns+1)+"24.00", last)
}

func TestRecapTable(t *testing.T) {
	r := recap.Recap{
		Cycle:       "60/7",
		OnDutyToday: 11,
		Seventy:     recap.Columns{A: 66, B: 4, C: 77},
		Sixty:       recap.Columns{A: 66, B: -6, C: 77},
	}
	out := Plain().Recap(r)

	assert.Contains(t, out, "On duty today: 11.00")
	assert.Contains(t, out, "70 hour / 8 day")
	assert.Contains(t, out, "60 hour / 7 day *")
	assert.Contains(t, out, "-6.00")
	assert.Contains(t, out, "4.00")
}

func TestSheetIncludesEveryBlock(t *testing.T) {
	day := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	sheet := logsheet.Sheet{
		Title:   logsheet.Title{Date: day, DriverName: "Sam Rivera", DriverNumber: "D-1042"},
		Carrier: logsheet.Carrier{MilesDriving: 320, MilesTotal: 410.5, Truck: "T-88"},
		Totals: []logsheet.StatusTotal{
			{Status: duty.OffDuty, Row: 1, Hours: 20},
			{Status: duty.Driving, Row: 3, Hours: 4},
		},
		Total: 24,
		Remarks: []logsheet.Remark{
			{Time: day.Add(20 * time.Hour), Status: duty.Driving, Location: "Chicago, IL"},
		},
		Recap: recap.Recap{Cycle: "70/8"},
	}
	sheet.Grid = schedule.Render([]schedule.Segment{{Row: 3, Start: 20, End: 23}})

	out := Plain().Sheet(sheet)
	for _, want := range []string{
		"Driver's Daily Log  Sunday, 02 November 2025",
		"Driver: Sam Rivera",
		"No.: D-1042",
		"Initials: -",
		"Total mileage: 410.5",
		"Truck: T-88",
		"Off Duty",
		"Driving",
		"20.00",
		"24.00",
		"20:00  Driving  Chicago, IL",
		"70 hour / 8 day *",
		"M = Mid-Night  N = Noon",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[")
}

func TestRemarksEmpty(t *testing.T) {
	assert.Equal(t, "Remarks\n  (none)\n", Plain().Remarks(nil))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "7.50", Hours(7.5))
	assert.Equal(t, "-6.00", Hours(-6))
	assert.Equal(t, "320", Miles(320))
	assert.Equal(t, "410.5", Miles(410.5))
}

func TestDefaultThemeIsStyled(t *testing.T) {
	assert.False(t, DefaultTheme().IsPlain())
	assert.True(t, Plain().IsPlain())
}

func TestThemeForBufferHasNoColour(t *testing.T) {
	var buf strings.Builder
	theme := ThemeFor(&buf)
	g := schedule.Render([]schedule.Segment{{Row: 1, Start: 0, End: 5}})
	assert.NotContains(t, theme.Grid(g, testRows), "\x1b[")
}
