package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/eldlog/internal/config"
	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/files"
	"github.com/faizmokh/eldlog/internal/logbook"
	"github.com/faizmokh/eldlog/internal/logsheet"
	"github.com/faizmokh/eldlog/internal/recap"
	"github.com/faizmokh/eldlog/internal/render"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
	endOfDay    = "24:00"
)

// env carries what every command needs. The root command fills cfg and ctx
// before any subcommand runs.
type env struct {
	ctx     context.Context
	manager *files.Manager
	cfg     *config.Config
	now     func() time.Time
}

func newEnv(ctx context.Context, manager *files.Manager) *env {
	return &env{
		ctx:     ctx,
		manager: manager,
		cfg:     config.Default(),
		now:     time.Now,
	}
}

func (e *env) location() *time.Location {
	return e.cfg.Location()
}

func (e *env) clock() time.Time {
	return e.now().In(e.location())
}

func (e *env) reader() *logbook.Reader {
	return logbook.NewReader(e.manager)
}

func (e *env) writer() *logbook.Writer {
	return logbook.NewWriter(e.manager, logbook.WithCarryDays(e.cfg.CarryDays))
}

func (e *env) resolveDate(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		return logbook.StartOfDay(e.clock()), nil
	}

	parsed, err := time.ParseInLocation(dateLayout, dateFlag, e.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return parsed, nil
}

// resolveTime pins timeFlag onto date, defaulting to the current clock.
func (e *env) resolveTime(date time.Time, timeFlag string) (time.Time, error) {
	if timeFlag == "" {
		now := e.clock()
		return time.Date(date.Year(), date.Month(), date.Day(), now.Hour(), now.Minute(), 0, 0, date.Location()), nil
	}
	return parseClock(date, timeFlag)
}

// parseClock reads HH:MM on date. 24:00 is the following midnight.
func parseClock(date time.Time, value string) (time.Time, error) {
	if value == endOfDay {
		return logbook.StartOfDay(date).AddDate(0, 0, 1), nil
	}
	parsed, err := time.ParseInLocation(clockLayout, value, date.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q (expected HH:MM): %w", value, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

func parseIndex(value string) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil || index <= 0 {
		return 0, fmt.Errorf("index must be a positive integer")
	}
	return index, nil
}

func parseStatusFlag(value string, current duty.Status) (duty.Status, error) {
	if value == "" {
		return current, nil
	}
	status, err := duty.Parse(value)
	if err != nil {
		return current, err
	}
	return status, nil
}

// loadDay returns the day for date, or an empty one when nothing is logged.
func (e *env) loadDay(date time.Time) (logbook.Day, error) {
	day, err := e.reader().Day(e.ctx, date)
	if errors.Is(err, logbook.ErrDayNotFound) {
		return logbook.Day{Date: logbook.StartOfDay(date)}, nil
	}
	return day, err
}

// buildSheet assembles the sheet for date with the recap window loaded.
func (e *env) buildSheet(date time.Time) (logsheet.Sheet, error) {
	day, err := e.loadDay(date)
	if err != nil {
		return logsheet.Sheet{}, err
	}
	history, err := e.reader().DaysBetween(e.ctx, recap.Window(date), date)
	if err != nil {
		return logsheet.Sheet{}, err
	}
	return logsheet.Build(day, history, e.cfg, logsheet.DefaultRows(), e.clock()), nil
}

func themeFor(cmd *cobra.Command, plain bool) render.Theme {
	if plain {
		return render.Plain()
	}
	return render.ThemeFor(cmd.OutOrStdout())
}

func formatEntry(entry logbook.Entry) string {
	var builder strings.Builder
	builder.Grow(40 + len(entry.Remarks) + len(entry.Location))

	builder.WriteString("[")
	builder.WriteString(string(entry.Status))
	builder.WriteString("] ")
	builder.WriteString(entry.Start.Format(clockLayout))
	builder.WriteString("-")
	switch {
	case entry.Open():
	case !entry.End.Before(logbook.StartOfDay(entry.Start).AddDate(0, 0, 1)):
		builder.WriteString(endOfDay)
	default:
		builder.WriteString(entry.End.Format(clockLayout))
	}

	if entry.Remarks != "" {
		builder.WriteString(" ")
		builder.WriteString(entry.Remarks)
	}
	if entry.Location != "" {
		builder.WriteString(" @ ")
		builder.WriteString(entry.Location)
	}
	return builder.String()
}

func printMissingDay(cmd *cobra.Command, date time.Time) {
	fmt.Fprintf(cmd.OutOrStdout(), "No entries for %s\n", date.Format(dateLayout))
}

func printDay(cmd *cobra.Command, day logbook.Day) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", day.Date.Format(dateLayout))
	if day.Route != (logbook.Route{}) {
		fmt.Fprintf(out, "Route: %s -> %s\n", day.Route.From, day.Route.To)
	}
	if day.Miles != (logbook.Mileage{}) {
		fmt.Fprintf(out, "Miles: %s driving, %s total\n", render.Miles(day.Miles.Driving), render.Miles(day.Miles.Total))
	}
	if len(day.Entries) == 0 {
		fmt.Fprintln(out, "(no entries)")
		return nil
	}

	for i, entry := range day.Entries {
		fmt.Fprintf(out, "%d. %s\n", i+1, formatEntry(entry))
	}
	return nil
}

func printDays(cmd *cobra.Command, days []logbook.Day) error {
	if len(days) == 0 {
		return nil
	}
	for i, day := range days {
		if err := printDay(cmd, day); err != nil {
			return err
		}
		if i < len(days)-1 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
