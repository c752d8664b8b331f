package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/faizmokh/eldlog/internal/logsheet"
	"github.com/faizmokh/eldlog/internal/recap"
	"github.com/faizmokh/eldlog/internal/schedule"
)

// Hours formats a number of hours the way the totals column prints them.
func Hours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

// Miles formats a mileage without trailing zeros.
func Miles(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// SheetRows builds the grid labels and totals from a sheet's totals block.
func SheetRows(sheet logsheet.Sheet) GridRows {
	var rows GridRows
	for _, total := range sheet.Totals {
		i := total.Row - 1
		if i < 0 || i >= schedule.Rows {
			continue
		}
		rows.Labels[i] = total.Status.Label()
		rows.Totals[i] = Hours(total.Hours)
	}
	rows.Sum = Hours(sheet.Total)
	return rows
}

// Recap draws the A/B/C recap for both cycles as a table. The configured
// cycle is marked with an asterisk.
func (t Theme) Recap(r recap.Recap) string {
	row := func(rule recap.Rule, cols recap.Columns) []string {
		name := fmt.Sprintf("%d hour / %d day", rule.Limit, rule.Days)
		if rule.Name == r.Cycle {
			name += " *"
		}
		return []string{name, Hours(cols.A), Hours(cols.B), Hours(cols.C)}
	}

	tbl := table.New().
		Border(t.Border).
		Headers("Cycle", "A", "B", "C").
		Row(row(recap.Rule70, r.Seventy)...).
		Row(row(recap.Rule60, r.Sixty)...).
		StyleFunc(func(rowIdx, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if t.plain {
				return style
			}
			if rowIdx == table.HeaderRow {
				return style.Inherit(t.Title)
			}
			if col > 0 {
				return style.Align(lipgloss.Right)
			}
			return style
		})
	if !t.plain {
		tbl = tbl.BorderStyle(t.Muted)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", t.paint(t.Title, "On duty today:"), Hours(r.OnDutyToday))
	b.WriteString(tbl.String())
	b.WriteByte('\n')
	b.WriteString(t.paint(t.Muted, "A: on duty last 6/7 days  B: available tomorrow  C: on duty last 7/8 days"))
	b.WriteByte('\n')
	return b.String()
}

// Remarks draws the remarks block.
func (t Theme) Remarks(remarks []logsheet.Remark) string {
	var b strings.Builder
	b.WriteString(t.paint(t.Title, "Remarks"))
	b.WriteByte('\n')
	if len(remarks) == 0 {
		b.WriteString(t.paint(t.Muted, "  (none)"))
		b.WriteByte('\n')
		return b.String()
	}
	for _, r := range remarks {
		b.WriteString("  ")
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Header draws the title, route and carrier blocks.
func (t Theme) Header(sheet logsheet.Sheet) string {
	var b strings.Builder
	title := "Driver's Daily Log  " + sheet.Title.Date.Format("Monday, 02 January 2006")
	b.WriteString(t.paint(t.Title, title))
	b.WriteByte('\n')

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return t.paint(t.Muted, label+":") + " " + value
	}
	line := func(fields ...string) {
		b.WriteString(strings.Join(fields, "   "))
		b.WriteByte('\n')
	}

	line(
		field("Driver", sheet.Title.DriverName),
		field("No.", sheet.Title.DriverNumber),
		field("Initials", sheet.Title.DriverInitials),
	)
	line(field("From", sheet.Route.From), field("To", sheet.Route.To))
	line(
		field("Miles driving", Miles(sheet.Carrier.MilesDriving)),
		field("Total mileage", Miles(sheet.Carrier.MilesTotal)),
	)
	line(field("Truck", sheet.Carrier.Truck), field("Trailer", sheet.Carrier.Trailer))
	line(
		field("Carrier", sheet.Carrier.Name),
		field("Main office", sheet.Carrier.MainOffice),
		field("Home terminal", sheet.Carrier.HomeTerminal),
	)
	return b.String()
}

// HourLegend spells out the one-letter captions of the grid header.
func (t Theme) HourLegend() string {
	legend := fmt.Sprintf("%s = %s  %s = %s",
		schedule.ShortHourLabel(0), schedule.HourLabel(0),
		schedule.ShortHourLabel(12), schedule.HourLabel(12))
	return t.paint(t.Muted, legend) + "\n"
}

// Sheet draws the complete daily log.
func (t Theme) Sheet(sheet logsheet.Sheet) string {
	parts := []string{
		t.Header(sheet),
		t.Grid(sheet.Grid, SheetRows(sheet)) + t.HourLegend(),
		t.Remarks(sheet.Remarks),
		t.Recap(sheet.Recap),
	}
	return strings.Join(parts, "\n")
}
