package logbook

import (
	"time"

	"github.com/faizmokh/eldlog/internal/duty"
)

// Entry is one duty-status period within a dated section. End is zero while
// the period is still running.
type Entry struct {
	Status   duty.Status `json:"status"`
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end,omitzero"`
	Remarks  string      `json:"remarks,omitempty"`
	Location string      `json:"location,omitempty"`
}

// Open reports whether the entry has not been closed yet.
func (e Entry) Open() bool {
	return e.End.IsZero()
}

// Duration returns how long the entry lasted. Open entries are measured up
// to until; an end before the start counts as zero.
func (e Entry) Duration(until time.Time) time.Duration {
	end := e.End
	if e.Open() {
		end = until
	}
	if end.Before(e.Start) {
		return 0
	}
	return end.Sub(e.Start)
}

// Mileage records the miles of one day. Total includes co-driver miles and
// is never below Driving.
type Mileage struct {
	Driving float64 `json:"driving"`
	Total   float64 `json:"total"`
}

// Route is the trip origin and destination printed in the From/To block.
type Route struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Day groups entries and metadata beneath the same YYYY-MM-DD heading.
type Day struct {
	Date    time.Time `json:"date"`
	Entries []Entry   `json:"entries"`
	Miles   Mileage   `json:"miles"`
	Route   Route     `json:"route"`
}

// Midnight returns the end of the day, which is the start of the next one.
func (d Day) Midnight() time.Time {
	return d.Date.AddDate(0, 0, 1)
}

// OpenEntry locates the entry that is still running.
type OpenEntry struct {
	Date  time.Time
	Index int
	Entry Entry
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Durations sums the time spent in each status within the day. Entries are
// clipped to the day; open entries run until now, or until midnight once
// the day is over.
func (d Day) Durations(now time.Time) map[duty.Status]time.Duration {
	dayStart, midnight := d.Date, d.Midnight()
	until := now
	if until.After(midnight) {
		until = midnight
	}

	out := make(map[duty.Status]time.Duration, len(duty.All()))
	for _, e := range d.Entries {
		start := e.Start
		if start.Before(dayStart) {
			start = dayStart
		}
		end := e.End
		if e.Open() {
			end = until
		}
		if end.After(midnight) {
			end = midnight
		}
		if end.After(start) {
			out[e.Status] += end.Sub(start)
		}
	}
	return out
}

// OnDuty returns the time spent driving or on duty not driving.
func (d Day) OnDuty(now time.Time) time.Duration {
	var total time.Duration
	for status, dur := range d.Durations(now) {
		if status.OnDuty() {
			total += dur
		}
	}
	return total
}
