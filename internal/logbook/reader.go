package logbook

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/faizmokh/eldlog/internal/files"
)

// DefaultCarryDays bounds how far back an unfinished duty period is looked
// up when the driver changes status.
const DefaultCarryDays = 14

// Reader provides helpers to load days from Markdown log files.
type Reader struct {
	manager *files.Manager
}

// NewReader wires a reader using the shared files.Manager.
func NewReader(manager *files.Manager) *Reader {
	return &Reader{manager: manager}
}

// Day returns the Day for the provided date.
func (r *Reader) Day(ctx context.Context, date time.Time) (Day, error) {
	if r == nil || r.manager == nil {
		return Day{}, errors.New("reader not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return Day{}, err
	}

	if !r.manager.MonthExists(date) {
		return Day{}, ErrDayNotFound
	}
	path := r.manager.MonthPath(date)

	file, err := os.Open(path)
	if err != nil {
		return Day{}, err
	}
	defer file.Close()

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("date", date.Format("2006-01-02")).Msg("read day")

	parser := NewParser(file, date.Location())
	for {
		day, err := parser.NextDay()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Day{}, ErrDayNotFound
			}
			return Day{}, err
		}
		if day != nil && SameDay(day.Date, date) {
			return *day, nil
		}
	}
}

// DaysBetween returns all Days that exist between the provided start and end
// dates (inclusive). Missing days are skipped silently.
func (r *Reader) DaysBetween(ctx context.Context, start, end time.Time) ([]Day, error) {
	if r == nil || r.manager == nil {
		return nil, errors.New("reader not initialized with file manager")
	}
	start, end = StartOfDay(start), StartOfDay(end)
	if end.Before(start) {
		return nil, nil
	}

	var days []Day
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		day, err := r.Day(ctx, current)
		if err != nil {
			if errors.Is(err, ErrDayNotFound) {
				continue
			}
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// LastDay returns the date of the newest day with entries, reading month
// files newest first. ok is false when nothing has been logged.
func (r *Reader) LastDay(ctx context.Context, loc *time.Location) (time.Time, bool, error) {
	if r == nil || r.manager == nil {
		return time.Time{}, false, errors.New("reader not initialized with file manager")
	}
	months, err := r.manager.Months(loc)
	if err != nil {
		return time.Time{}, false, err
	}

	for _, month := range months {
		if err := ctx.Err(); err != nil {
			return time.Time{}, false, err
		}
		last, ok, err := r.lastDayIn(month)
		if err != nil {
			return time.Time{}, false, err
		}
		if ok {
			return last, true, nil
		}
	}
	return time.Time{}, false, nil
}

func (r *Reader) lastDayIn(month time.Time) (time.Time, bool, error) {
	file, err := os.Open(r.manager.MonthPath(month))
	if err != nil {
		return time.Time{}, false, err
	}
	defer file.Close()

	var last time.Time
	parser := NewParser(file, month.Location())
	for {
		day, err := parser.NextDay()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return time.Time{}, false, err
		}
		if len(day.Entries) > 0 && day.Date.After(last) {
			last = day.Date
		}
	}
	return last, !last.IsZero(), nil
}

// Current finds the latest duty period still running. The search starts at
// the newest logged day, or at's date when that is later, and goes back to
// carryDays days before at's date, so a period opened after at is found too.
func (r *Reader) Current(ctx context.Context, at time.Time, carryDays int) (OpenEntry, error) {
	if carryDays < 0 {
		carryDays = 0
	}
	to := StartOfDay(at)
	from := to.AddDate(0, 0, -carryDays)

	last, ok, err := r.LastDay(ctx, at.Location())
	if err != nil {
		return OpenEntry{}, err
	}
	if ok && last.After(to) {
		to = last
	}

	for target := to; !target.Before(from); target = target.AddDate(0, 0, -1) {
		day, err := r.Day(ctx, target)
		if err != nil {
			if errors.Is(err, ErrDayNotFound) {
				continue
			}
			return OpenEntry{}, err
		}
		for i := len(day.Entries) - 1; i >= 0; i-- {
			if day.Entries[i].Open() {
				return OpenEntry{Date: day.Date, Index: i, Entry: day.Entries[i]}, nil
			}
		}
	}
	return OpenEntry{}, ErrNoOpenEntry
}
