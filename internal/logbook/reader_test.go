package logbook

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/files"
)

func newTestManager(t *testing.T) *files.Manager {
	t.Helper()
	mgr, err := files.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func writeMonth(t *testing.T, mgr *files.Manager, date time.Time, content string) {
	t.Helper()
	path, err := mgr.EnsureMonthFile(date)
	if err != nil {
		t.Fatalf("EnsureMonthFile: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestReaderDayReturnsEntries(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	date := time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC)
	writeMonth(t, mgr, date, `
# Driver's Daily Log - November 2025

## 2025-11-08
- [off-duty] [00:00-24:00]

## 2025-11-09
- [driving] [05:15-09:45] Out of the yard | Green Bay, WI
- [on-duty-not-driving] [09:45-10:30] Pre-trip inspection
`)

	day, err := reader.Day(context.Background(), date)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(day.Entries) != 2 {
		t.Fatalf("day entries = %d, want 2", len(day.Entries))
	}
	if day.Entries[0].Status != duty.Driving {
		t.Fatalf("first entry status = %v, want driving", day.Entries[0].Status)
	}
	if day.Entries[1].Remarks != "Pre-trip inspection" {
		t.Fatalf("second entry remarks = %q", day.Entries[1].Remarks)
	}
}

func TestReaderDayMissingReturnsError(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	date := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	if _, err := reader.Day(context.Background(), date); !errors.Is(err, ErrDayNotFound) {
		t.Fatalf("Day error = %v, want ErrDayNotFound", err)
	}
	if mgr.MonthExists(date) {
		t.Fatalf("reading must not create the month file")
	}

	writeMonth(t, mgr, date, "# Driver's Daily Log - November 2025\n\n## 2025-11-11\n")
	if _, err := reader.Day(context.Background(), date); !errors.Is(err, ErrDayNotFound) {
		t.Fatalf("Day error = %v, want ErrDayNotFound", err)
	}
}

func TestReaderDaysBetweenSkipsMissing(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	writeMonth(t, mgr, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), `
# Driver's Daily Log - November 2025

## 2025-11-01
- [driving] [08:00-12:00]

## 2025-11-03
- [driving] [08:00-10:00]
`)

	start := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	days, err := reader.DaysBetween(context.Background(), start, end)
	if err != nil {
		t.Fatalf("DaysBetween: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[1].Date.Day() != 3 {
		t.Fatalf("second day = %s, want 2025-11-03", days[1].Date.Format("2006-01-02"))
	}

	none, err := reader.DaysBetween(context.Background(), end, start)
	if err != nil || none != nil {
		t.Fatalf("reversed range = %v, %v; want nil, nil", none, err)
	}
}

func TestReaderDaysBetweenCrossesMonths(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	writeMonth(t, mgr, time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC),
		"# Driver's Daily Log - October 2025\n\n## 2025-10-31\n- [driving] [10:00-11:00]\n")
	writeMonth(t, mgr, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
		"# Driver's Daily Log - November 2025\n\n## 2025-11-01\n- [driving] [10:00-11:00]\n")

	days, err := reader.DaysBetween(context.Background(),
		time.Date(2025, time.October, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DaysBetween: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
}

func TestReaderCurrentFindsOpenEntryOnEarlierDay(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	writeMonth(t, mgr, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), `
## 2025-11-01
- [off-duty] [00:00-20:00]
- [sleeper-berth] [20:00-]
`)

	at := time.Date(2025, time.November, 3, 7, 0, 0, 0, time.UTC)
	open, err := reader.Current(context.Background(), at, DefaultCarryDays)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if open.Index != 1 || open.Entry.Status != duty.SleeperBerth || open.Date.Day() != 1 {
		t.Fatalf("open = %+v", open)
	}

	if _, err := reader.Current(context.Background(), at, 1); !errors.Is(err, ErrNoOpenEntry) {
		t.Fatalf("Current with short carry error = %v, want ErrNoOpenEntry", err)
	}
}

func TestReaderCurrentLooksPastClosedDays(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	writeMonth(t, mgr, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), `
## 2025-11-01
- [driving] [08:00-]

## 2025-11-02
- [on-duty-not-driving] [08:00-10:00]
`)

	at := time.Date(2025, time.November, 2, 12, 0, 0, 0, time.UTC)
	open, err := reader.Current(context.Background(), at, DefaultCarryDays)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if open.Date.Day() != 1 || open.Entry.Status != duty.Driving {
		t.Fatalf("open = %+v, want the driving period of 2025-11-01", open)
	}
}

func TestReaderCurrentFindsPeriodOpenedAfterAt(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	writeMonth(t, mgr, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), `
## 2025-11-09
- [off-duty] [00:00-24:00]

## 2025-11-10
- [driving] [08:00-]
`)

	at := time.Date(2025, time.November, 9, 20, 0, 0, 0, time.UTC)
	open, err := reader.Current(context.Background(), at, DefaultCarryDays)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if open.Date.Day() != 10 || open.Index != 0 {
		t.Fatalf("open = %+v, want the period started on 2025-11-10", open)
	}
}

func TestReaderLastDay(t *testing.T) {
	mgr := newTestManager(t)
	reader := NewReader(mgr)

	if _, ok, err := reader.LastDay(context.Background(), time.UTC); err != nil || ok {
		t.Fatalf("LastDay on empty home = %v, %v; want not found", ok, err)
	}

	writeMonth(t, mgr, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		"## 2025-10-30\n- [driving] [10:00-11:00]\n")
	writeMonth(t, mgr, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
		"# Driver's Daily Log - November 2025\n\n## 2025-11-04\n> miles: 10\n")

	last, ok, err := reader.LastDay(context.Background(), time.UTC)
	if err != nil || !ok {
		t.Fatalf("LastDay = %v, %v", ok, err)
	}
	if got := last.Format("2006-01-02"); got != "2025-10-30" {
		t.Fatalf("LastDay = %s, want 2025-10-30", got)
	}
}
