// Package logsheet turns a logged day into the Driver's Daily Log sheet:
// grid segments, per-status totals, remarks and the surrounding blocks.
package logsheet

import (
	"fmt"
	"sort"
	"time"

	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/logbook"
	"github.com/faizmokh/eldlog/internal/schedule"
)

// RowMap assigns each duty status its lane on the grid.
type RowMap map[duty.Status]schedule.Row

// DefaultRows returns the lane order of the printed form.
func DefaultRows() RowMap {
	return RowMap{
		duty.OffDuty:      1,
		duty.SleeperBerth: 2,
		duty.Driving:      3,
		duty.OnDuty:       4,
	}
}

// Row returns the lane of status, or schedule.NoRow when it has none.
func (m RowMap) Row(status duty.Status) schedule.Row {
	if row, ok := m[status]; ok {
		return row
	}
	return schedule.NoRow
}

// Status returns the status drawn in row.
func (m RowMap) Status(row schedule.Row) (duty.Status, bool) {
	for status, r := range m {
		if r == row {
			return status, true
		}
	}
	return "", false
}

// Segments reshapes the day's entries into grid segments. Columns are the
// start and end hours; an entry ending at midnight ends in the last column.
// An open entry ends at now's hour when now falls on the day and in the last
// column otherwise. Next is the lane of the following entry.
func Segments(day logbook.Day, rows RowMap, now time.Time) []schedule.Segment {
	if rows == nil {
		rows = DefaultRows()
	}
	entries := sortedEntries(day.Entries)

	segments := make([]schedule.Segment, 0, len(entries))
	for i, entry := range entries {
		seg := schedule.Segment{
			Row:   rows.Row(entry.Status),
			Start: startColumn(day, entry.Start),
			End:   endColumn(day, entry, now),
		}
		if i+1 < len(entries) {
			seg.Next = rows.Row(entries[i+1].Status)
		}
		segments = append(segments, seg)
	}
	return segments
}

func startColumn(day logbook.Day, start time.Time) int {
	if start.Before(day.Date) {
		return 0
	}
	return start.Hour()
}

func endColumn(day logbook.Day, entry logbook.Entry, now time.Time) int {
	end := entry.End
	if entry.Open() {
		if !logbook.SameDay(now, day.Date) {
			return schedule.Columns - 1
		}
		end = now
	}
	if !end.Before(day.Midnight()) {
		return schedule.Columns - 1
	}
	return end.Hour()
}

func sortedEntries(entries []logbook.Entry) []logbook.Entry {
	sorted := append([]logbook.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}

// Totals holds the hours per status shown in the right-hand column of the
// grid.
type Totals map[duty.Status]time.Duration

// ComputeTotals sums the day's hours per status. Every status is present,
// and the values add up to the elapsed part of the day.
func ComputeTotals(day logbook.Day, now time.Time) Totals {
	totals := Totals(day.Durations(now))
	for _, status := range duty.All() {
		if _, ok := totals[status]; !ok {
			totals[status] = 0
		}
	}
	return totals
}

// Hours returns the total of status in hours.
func (t Totals) Hours(status duty.Status) float64 {
	return t[status].Hours()
}

// Sum returns the total across every status.
func (t Totals) Sum() time.Duration {
	var sum time.Duration
	for _, d := range t {
		sum += d
	}
	return sum
}

// Remark is one line of the remarks block: a change of duty status.
type Remark struct {
	Time     time.Time   `json:"time"`
	Status   duty.Status `json:"status"`
	Location string      `json:"location,omitempty"`
	Remarks  string      `json:"remarks,omitempty"`
}

func (r Remark) String() string {
	line := fmt.Sprintf("%s  %s", r.Time.Format("15:04"), r.Status.Label())
	if r.Location != "" {
		line += "  " + r.Location
	}
	if r.Remarks != "" {
		line += "  (" + r.Remarks + ")"
	}
	return line
}

// Remarks lists every change of duty status in order. Consecutive entries
// with the same status, location and remarks are reported once.
func Remarks(day logbook.Day) []Remark {
	var out []Remark
	for _, entry := range sortedEntries(day.Entries) {
		r := Remark{Time: entry.Start, Status: entry.Status, Location: entry.Location, Remarks: entry.Remarks}
		if n := len(out); n > 0 {
			last := out[n-1]
			if last.Status == r.Status && last.Location == r.Location && last.Remarks == r.Remarks {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
