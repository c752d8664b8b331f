package logbook

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/faizmokh/eldlog/internal/duty"
)

func readMonth(t *testing.T, path string) string {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(got)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.November, day, hour, minute, 0, 0, time.UTC)
}

func TestWriterAppendCreatesDay(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)

	date := at(2, 0, 0)
	entry := Entry{
		Status:   duty.Driving,
		Start:    at(2, 6, 0),
		End:      at(2, 9, 30),
		Remarks:  "Left terminal",
		Location: "Green Bay, WI",
	}

	if err := writer.Append(context.Background(), date, entry); err != nil {
		t.Fatalf("Append: %v", err)
	}

	want := strings.TrimLeft(`
# Driver's Daily Log - November 2025

## 2025-11-02
- [driving] [06:00-09:30] Left terminal | Green Bay, WI
`, "\n")

	if got := readMonth(t, mgr.MonthPath(date)); got != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}
}

func TestWriterAppendKeepsStartOrder(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	date := at(3, 0, 0)
	writeMonth(t, mgr, date, `
# Driver's Daily Log - November 2025

## 2025-11-03
> miles: 100 / 100
- [off-duty] [00:00-06:00]
- [on-duty-not-driving] [08:00-09:00]

## 2025-11-05
- [off-duty] [00:00-24:00]
`)

	if err := writer.Append(ctx, date, Entry{Status: duty.Driving, Start: at(3, 6, 0), End: at(3, 8, 0)}); err != nil {
		t.Fatalf("Append middle: %v", err)
	}
	if err := writer.Append(ctx, date, Entry{Status: duty.OffDuty, Start: at(3, 9, 0)}); err != nil {
		t.Fatalf("Append last: %v", err)
	}
	if err := writer.Append(ctx, at(4, 0, 0), Entry{Status: duty.Driving, Start: at(4, 1, 0), End: at(4, 2, 0)}); err != nil {
		t.Fatalf("Append new day: %v", err)
	}

	want := strings.TrimLeft(`
# Driver's Daily Log - November 2025

## 2025-11-03
> miles: 100 / 100
- [off-duty] [00:00-06:00]
- [driving] [06:00-08:00]
- [on-duty-not-driving] [08:00-09:00]
- [off-duty] [09:00-]

## 2025-11-04
- [driving] [01:00-02:00]

## 2025-11-05
- [off-duty] [00:00-24:00]
`, "\n")
	if got := readMonth(t, mgr.MonthPath(date)); got != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}
}

func TestWriterAppendRejectsInvalidEntries(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)

	err := writer.Append(context.Background(), at(6, 0, 0), Entry{Status: "lunch", Start: at(6, 1, 0)})
	if !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("Append error = %v, want ErrInvalidEntry", err)
	}

	err = writer.Append(context.Background(), at(6, 0, 0), Entry{Status: duty.Driving, Start: at(6, 5, 0), End: at(6, 4, 0)})
	if !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("Append error = %v, want ErrOutOfOrder", err)
	}
}

func TestWriterChangeStatusClosesRunningPeriod(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	if _, err := writer.ChangeStatus(ctx, at(7, 6, 0), duty.OnDuty, "Pre-trip", "Yard"); err != nil {
		t.Fatalf("ChangeStatus first: %v", err)
	}
	entry, err := writer.ChangeStatus(ctx, at(7, 6, 30), duty.Driving, "", "")
	if err != nil {
		t.Fatalf("ChangeStatus second: %v", err)
	}
	if !entry.Open() || entry.Status != duty.Driving {
		t.Fatalf("new entry = %+v", entry)
	}

	want := strings.TrimLeft(`
# Driver's Daily Log - November 2025

## 2025-11-07
- [on-duty-not-driving] [06:00-06:30] Pre-trip | Yard
- [driving] [06:30-]
`, "\n")
	if got := readMonth(t, mgr.MonthPath(at(7, 0, 0))); got != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}
}

func TestWriterChangeStatusCarriesAcrossDays(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	if _, err := writer.ChangeStatus(ctx, at(8, 21, 0), duty.SleeperBerth, "", "Rest area"); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if _, err := writer.ChangeStatus(ctx, at(10, 5, 45), duty.Driving, "", ""); err != nil {
		t.Fatalf("ChangeStatus next days: %v", err)
	}

	want := strings.TrimLeft(`
# Driver's Daily Log - November 2025

## 2025-11-08
- [sleeper-berth] [21:00-24:00] | Rest area

## 2025-11-09
- [sleeper-berth] [00:00-24:00] | Rest area

## 2025-11-10
- [sleeper-berth] [00:00-05:45] | Rest area
- [driving] [05:45-]
`, "\n")
	if got := readMonth(t, mgr.MonthPath(at(8, 0, 0))); got != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}
}

func TestWriterChangeStatusAtMidnightSkipsEmptyTail(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	if _, err := writer.ChangeStatus(ctx, at(11, 22, 0), duty.Driving, "", ""); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if _, err := writer.ChangeStatus(ctx, at(12, 0, 0), duty.OffDuty, "", ""); err != nil {
		t.Fatalf("ChangeStatus at midnight: %v", err)
	}

	day, err := NewReader(mgr).Day(ctx, at(12, 0, 0))
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(day.Entries) != 1 || day.Entries[0].Status != duty.OffDuty {
		t.Fatalf("entries = %+v, want the new off-duty period only", day.Entries)
	}
}

func TestWriterChangeStatusRejectsEarlierTime(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	if _, err := writer.ChangeStatus(ctx, at(13, 10, 0), duty.Driving, "", ""); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if _, err := writer.ChangeStatus(ctx, at(13, 9, 0), duty.OffDuty, "", ""); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("ChangeStatus error = %v, want ErrOutOfOrder", err)
	}
	if _, err := writer.ChangeStatus(ctx, at(13, 11, 0), duty.Status("nap"), "", ""); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("ChangeStatus error = %v, want ErrInvalidEntry", err)
	}
}

func TestWriterChangeStatusRejectsBackdatedDay(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	if _, err := writer.ChangeStatus(ctx, at(10, 8, 0), duty.Driving, "", ""); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if _, err := writer.ChangeStatus(ctx, at(9, 20, 0), duty.OffDuty, "", ""); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("ChangeStatus error = %v, want ErrOutOfOrder", err)
	}
	if _, err := writer.End(ctx, at(9, 22, 0)); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("End error = %v, want ErrOutOfOrder", err)
	}

	reader := NewReader(mgr)
	if _, err := reader.Day(ctx, at(9, 0, 0)); !errors.Is(err, ErrDayNotFound) {
		t.Fatalf("Day(2025-11-09) error = %v, want ErrDayNotFound", err)
	}
	day, err := reader.Day(ctx, at(10, 0, 0))
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(day.Entries) != 1 || !day.Entries[0].Open() {
		t.Fatalf("entries = %+v, want the single running driving period", day.Entries)
	}
}

func TestWriterChangeStatusClosesPeriodBehindLoggedDay(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	if _, err := writer.ChangeStatus(ctx, at(9, 20, 0), duty.Driving, "", ""); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if err := writer.Append(ctx, at(10, 0, 0), Entry{Status: duty.OnDuty, Start: at(10, 13, 0), End: at(10, 14, 0)}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := writer.ChangeStatus(ctx, at(10, 15, 0), duty.OffDuty, "", ""); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	reader := NewReader(mgr)
	prev, err := reader.Day(ctx, at(9, 0, 0))
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if prev.Entries[0].Open() || !prev.Entries[0].End.Equal(at(10, 0, 0)) {
		t.Fatalf("2025-11-09 entry = %+v, want closed at midnight", prev.Entries[0])
	}

	open, err := reader.Current(ctx, at(10, 16, 0), DefaultCarryDays)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if open.Entry.Status != duty.OffDuty || !open.Entry.Start.Equal(at(10, 15, 0)) {
		t.Fatalf("running = %+v, want off-duty since 15:00", open.Entry)
	}
}

func TestWriterEndClosesWithoutNewPeriod(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	if _, err := writer.End(ctx, at(14, 18, 0)); !errors.Is(err, ErrNoOpenEntry) {
		t.Fatalf("End error = %v, want ErrNoOpenEntry", err)
	}

	if _, err := writer.ChangeStatus(ctx, at(14, 8, 0), duty.Driving, "", ""); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	closed, err := writer.End(ctx, at(14, 17, 20))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if closed.Open() || closed.End.Hour() != 17 || closed.End.Minute() != 20 {
		t.Fatalf("closed entry = %+v", closed)
	}
	if _, err := writer.End(ctx, at(14, 18, 0)); !errors.Is(err, ErrNoOpenEntry) {
		t.Fatalf("second End error = %v, want ErrNoOpenEntry", err)
	}
}

func TestWriterDaySpansSubheadings(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	date := at(15, 0, 0)
	writeMonth(t, mgr, date, `
# Driver's Daily Log - November 2025

## 2025-11-15
- [driving] [06:00-08:00]

## Notes
Trailer swap at the yard.

- [off-duty] [08:00-]

## 2025-11-16
- [driving] [09:00-10:00]
`)

	open, err := NewReader(mgr).Current(ctx, at(15, 12, 0), 0)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if open.Index != 1 || open.Entry.Status != duty.OffDuty {
		t.Fatalf("open = %+v, want the off-duty entry at index 1", open)
	}

	if _, err := writer.End(ctx, at(15, 12, 0)); err != nil {
		t.Fatalf("End: %v", err)
	}

	got := readMonth(t, mgr.MonthPath(date))
	for _, want := range []string{
		"- [driving] [06:00-08:00]\n",
		"## Notes\n",
		"- [off-duty] [08:00-12:00]\n",
		"## 2025-11-16\n- [driving] [09:00-10:00]\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("month file missing %q:\n%s", want, got)
		}
	}
}

func TestWriterEditResortsDay(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	date := at(15, 0, 0)
	writeMonth(t, mgr, date, `
# Driver's Daily Log - November 2025

## 2025-11-15
- [driving] [06:00-08:00]
- [off-duty] [08:00-10:00]
`)

	updated := Entry{Status: duty.OnDuty, Start: at(15, 4, 0), End: at(15, 6, 0), Remarks: "Loading"}
	if err := writer.Edit(ctx, date, 2, updated); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	want := strings.TrimLeft(`
# Driver's Daily Log - November 2025

## 2025-11-15
- [on-duty-not-driving] [04:00-06:00] Loading
- [driving] [06:00-08:00]
`, "\n")
	if got := readMonth(t, mgr.MonthPath(date)); got != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}

	if err := writer.Edit(ctx, date, 3, updated); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Edit error = %v, want ErrInvalidIndex", err)
	}
	if err := writer.Edit(ctx, at(16, 0, 0), 1, updated); !errors.Is(err, ErrDayNotFound) {
		t.Fatalf("Edit error = %v, want ErrDayNotFound", err)
	}
}

func TestWriterDeleteRemovesEntry(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	date := at(17, 0, 0)
	writeMonth(t, mgr, date, `
# Driver's Daily Log - November 2025

## 2025-11-17
- [driving] [06:00-08:00] First
- [off-duty] [08:00-10:00] Second
`)

	entry, err := writer.Delete(ctx, date, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if entry.Remarks != "First" {
		t.Fatalf("deleted entry = %+v", entry)
	}

	day, err := NewReader(mgr).Day(ctx, date)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if len(day.Entries) != 1 || day.Entries[0].Remarks != "Second" {
		t.Fatalf("remaining entries = %+v", day.Entries)
	}

	if _, err := writer.Delete(ctx, date, 5); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Delete error = %v, want ErrInvalidIndex", err)
	}
}

func TestWriterSetMileageAndRoute(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)
	ctx := context.Background()

	date := at(18, 0, 0)
	if _, err := writer.ChangeStatus(ctx, at(18, 6, 0), duty.Driving, "", ""); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	m, err := writer.SetMileage(ctx, date, 312.5, 0)
	if err != nil {
		t.Fatalf("SetMileage: %v", err)
	}
	if m != (Mileage{Driving: 312.5, Total: 312.5}) {
		t.Fatalf("mileage = %+v", m)
	}
	if _, err := writer.SetMileage(ctx, date, 320, 410); err != nil {
		t.Fatalf("SetMileage update: %v", err)
	}
	if err := writer.SetRoute(ctx, date, Route{From: "Green Bay, WI", To: "Chicago | IL"}); err != nil {
		t.Fatalf("SetRoute: %v", err)
	}

	want := strings.TrimLeft(`
# Driver's Daily Log - November 2025

## 2025-11-18
> miles: 320 / 410
> route: Green Bay, WI -> Chicago / IL
- [driving] [06:00-]
`, "\n")
	if got := readMonth(t, mgr.MonthPath(date)); got != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}

	if _, err := writer.SetMileage(ctx, date, 400, 300); !errors.Is(err, ErrInvalidMileage) {
		t.Fatalf("SetMileage error = %v, want ErrInvalidMileage", err)
	}
	if _, err := writer.SetMileage(ctx, date, -1, 0); !errors.Is(err, ErrInvalidMileage) {
		t.Fatalf("SetMileage error = %v, want ErrInvalidMileage", err)
	}
}

func TestWriterSetMileageCreatesDay(t *testing.T) {
	mgr := newTestManager(t)
	writer := NewWriter(mgr)

	date := at(19, 0, 0)
	if _, err := writer.SetMileage(context.Background(), date, 50, 75); err != nil {
		t.Fatalf("SetMileage: %v", err)
	}
	day, err := NewReader(mgr).Day(context.Background(), date)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if day.Miles != (Mileage{Driving: 50, Total: 75}) {
		t.Fatalf("miles = %+v", day.Miles)
	}
}
