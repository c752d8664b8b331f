package logbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/files"
)

// Writer handles status changes, edits, deletes and day metadata on
// Markdown log files.
type Writer struct {
	manager   *files.Manager
	reader    *Reader
	carryDays int
}

// Option customizes a Writer.
type Option func(*Writer)

// WithCarryDays sets how many days back ChangeStatus and End look for the
// running duty period.
func WithCarryDays(days int) Option {
	return func(w *Writer) {
		if days >= 0 {
			w.carryDays = days
		}
	}
}

// NewWriter wires the dependencies required to manipulate Markdown log files.
func NewWriter(manager *files.Manager, opts ...Option) *Writer {
	w := &Writer{
		manager:   manager,
		reader:    NewReader(manager),
		carryDays: DefaultCarryDays,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Append inserts entry into the day of date, keeping entries ordered by start
// time and creating the day if needed.
func (w *Writer) Append(ctx context.Context, date time.Time, entry Entry) error {
	entry, err := prepareEntry(date, entry)
	if err != nil {
		return err
	}

	path, lines, state, err := w.loadDay(ctx, date)
	if err != nil {
		return err
	}

	if state == nil {
		lines = insertDay(lines, date, []string{formatEntry(entry)})
	} else {
		lines = insertLine(lines, state.entryInsertAt(entry.Start), formatEntry(entry))
	}

	return writeLines(ctx, path, lines)
}

// ChangeStatus closes the running duty period at at and starts a new one
// with status. A period left running on an earlier day is closed at that
// day's midnight and carried through every following day up to at.
func (w *Writer) ChangeStatus(ctx context.Context, at time.Time, status duty.Status, remarks, location string) (Entry, error) {
	if !status.Valid() {
		return Entry{}, fmt.Errorf("%w: status %q", ErrInvalidEntry, status)
	}
	at = truncateMinute(at)

	open, err := w.reader.Current(ctx, at, w.carryDays)
	switch {
	case err == nil:
		if _, err := w.closeOpen(ctx, open, at); err != nil {
			return Entry{}, err
		}
	case !errors.Is(err, ErrNoOpenEntry):
		return Entry{}, err
	}

	entry := Entry{
		Status:   status,
		Start:    at,
		Remarks:  remarks,
		Location: location,
	}
	if err := w.Append(ctx, at, entry); err != nil {
		return Entry{}, err
	}

	zerolog.Ctx(ctx).Info().
		Str("status", string(status)).
		Time("at", at).
		Msg("duty status changed")
	return entry, nil
}

// End closes the running duty period at at without starting another one.
func (w *Writer) End(ctx context.Context, at time.Time) (Entry, error) {
	at = truncateMinute(at)
	open, err := w.reader.Current(ctx, at, w.carryDays)
	if err != nil {
		return Entry{}, err
	}
	return w.closeOpen(ctx, open, at)
}

func (w *Writer) closeOpen(ctx context.Context, open OpenEntry, at time.Time) (Entry, error) {
	if at.Before(open.Entry.Start) {
		return Entry{}, fmt.Errorf("%w: %s is before %s",
			ErrOutOfOrder, at.Format("2006-01-02 15:04"), open.Entry.Start.Format("2006-01-02 15:04"))
	}

	day := StartOfDay(open.Date)
	target := StartOfDay(at)
	closed := open.Entry

	if SameDay(day, target) {
		closed.End = at
		return closed, w.Edit(ctx, day, open.Index+1, closed)
	}

	closed.End = day.AddDate(0, 0, 1)
	if err := w.Edit(ctx, day, open.Index+1, closed); err != nil {
		return Entry{}, err
	}

	for d := day.AddDate(0, 0, 1); d.Before(target); d = d.AddDate(0, 0, 1) {
		carried := Entry{
			Status:   closed.Status,
			Start:    d,
			End:      d.AddDate(0, 0, 1),
			Remarks:  closed.Remarks,
			Location: closed.Location,
		}
		if err := w.Append(ctx, d, carried); err != nil {
			return Entry{}, err
		}
	}

	if at.After(target) {
		tail := Entry{
			Status:   closed.Status,
			Start:    target,
			End:      at,
			Remarks:  closed.Remarks,
			Location: closed.Location,
		}
		if err := w.Append(ctx, target, tail); err != nil {
			return Entry{}, err
		}
	}

	zerolog.Ctx(ctx).Debug().
		Time("from", open.Entry.Start).
		Time("to", at).
		Msg("carried duty period across days")
	return closed, nil
}

// Edit replaces the entry at index (1-based) with the supplied entry and
// re-sorts the day by start time.
func (w *Writer) Edit(ctx context.Context, date time.Time, index int, updated Entry) error {
	updated, err := prepareEntry(date, updated)
	if err != nil {
		return err
	}

	path, lines, state, err := w.loadDay(ctx, date)
	if err != nil {
		return err
	}
	if state == nil {
		return ErrDayNotFound
	}
	if index < 1 || index > len(state.entryIndexes) {
		return ErrInvalidIndex
	}

	entries := state.day.Entries
	entries[index-1] = updated
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})
	for i, lineIdx := range state.entryIndexes {
		lines[lineIdx] = formatEntry(entries[i])
	}
	return writeLines(ctx, path, lines)
}

// Delete removes the entry at index (1-based) from the day.
func (w *Writer) Delete(ctx context.Context, date time.Time, index int) (Entry, error) {
	path, lines, state, err := w.loadDay(ctx, date)
	if err != nil {
		return Entry{}, err
	}
	if state == nil {
		return Entry{}, ErrDayNotFound
	}
	if index < 1 || index > len(state.entryIndexes) {
		return Entry{}, ErrInvalidIndex
	}

	lineIdx := state.entryIndexes[index-1]
	entry := state.day.Entries[index-1]

	lines = append(lines[:lineIdx], lines[lineIdx+1:]...)
	return entry, writeLines(ctx, path, lines)
}

// SetMileage records the miles for the day of date. A zero total falls back
// to the driving miles.
func (w *Writer) SetMileage(ctx context.Context, date time.Time, driving, total float64) (Mileage, error) {
	if total == 0 {
		total = driving
	}
	if driving < 0 || total < driving {
		return Mileage{}, fmt.Errorf("%w: driving %s, total %s", ErrInvalidMileage, formatFloat(driving), formatFloat(total))
	}
	m := Mileage{Driving: driving, Total: total}
	return m, w.setMeta(ctx, date, metaMiles, formatFloat(m.Driving)+" / "+formatFloat(m.Total))
}

// SetRoute records the From/To locations for the day of date.
func (w *Writer) SetRoute(ctx context.Context, date time.Time, route Route) error {
	from := sanitize(strings.ReplaceAll(route.From, routeSeparator, " "))
	to := sanitize(strings.ReplaceAll(route.To, routeSeparator, " "))
	return w.setMeta(ctx, date, metaRoute, from+routeSeparator+to)
}

func (w *Writer) setMeta(ctx context.Context, date time.Time, key, value string) error {
	line := fmt.Sprintf("> %s: %s", key, value)

	path, lines, state, err := w.loadDay(ctx, date)
	if err != nil {
		return err
	}

	switch {
	case state == nil:
		lines = insertDay(lines, date, []string{line})
	case state.hasMeta(key):
		lines[state.metaIndexes[key]] = line
	default:
		insertAt := state.start + 1
		for _, idx := range state.metaIndexes {
			if idx+1 > insertAt {
				insertAt = idx + 1
			}
		}
		lines = insertLine(lines, insertAt, line)
	}
	return writeLines(ctx, path, lines)
}

// loadDay reads the month file of date and locates the day's lines.
func (w *Writer) loadDay(ctx context.Context, date time.Time) (string, []string, *dayState, error) {
	if w == nil || w.manager == nil {
		return "", nil, nil, errors.New("writer not initialized with file manager")
	}
	if err := ctx.Err(); err != nil {
		return "", nil, nil, err
	}

	path, err := w.manager.EnsureMonthFile(date)
	if err != nil {
		return "", nil, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, nil, err
	}

	lines := splitLines(string(data))
	heading := dayHeading(date)

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = i
			break
		}
	}

	if start == -1 {
		return path, lines, nil, nil
	}

	// Only another date heading ends the day, as in Parser.
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if _, ok := parseDayHeading(strings.TrimSpace(lines[i]), date.Location()); ok {
			end = i
			break
		}
	}

	dayDate := StartOfDay(date)
	state := &dayState{
		day:         Day{Date: dayDate},
		start:       start,
		end:         end,
		metaIndexes: map[string]int{},
	}
	for i := start + 1; i < end; i++ {
		line := strings.TrimSpace(lines[i])
		if key, value, ok := parseMetaLine(line); ok {
			applyMeta(&state.day, key, value)
			state.metaIndexes[key] = i
			continue
		}
		if entry, ok := parseEntryLine(line, dayDate); ok {
			state.entryIndexes = append(state.entryIndexes, i)
			state.day.Entries = append(state.day.Entries, entry)
		}
	}

	return path, lines, state, nil
}

type dayState struct {
	day          Day
	start        int
	end          int
	entryIndexes []int
	metaIndexes  map[string]int
}

func (s *dayState) hasMeta(key string) bool {
	_, ok := s.metaIndexes[key]
	return ok
}

// entryInsertAt returns the line index an entry starting at start belongs at.
func (s *dayState) entryInsertAt(start time.Time) int {
	for i, entry := range s.day.Entries {
		if entry.Start.After(start) {
			return s.entryIndexes[i]
		}
	}
	last := s.start
	for _, idx := range s.entryIndexes {
		last = max(last, idx)
	}
	for _, idx := range s.metaIndexes {
		last = max(last, idx)
	}
	return last + 1
}

func dayHeading(date time.Time) string {
	return fmt.Sprintf("## %04d-%02d-%02d", date.Year(), date.Month(), date.Day())
}

// insertDay adds a new day block before the first later day, or at the end
// of the file.
func insertDay(lines []string, date time.Time, body []string) []string {
	block := append([]string{dayHeading(date)}, body...)
	target := StartOfDay(date)

	for i, line := range lines {
		existing, ok := parseDayHeading(strings.TrimSpace(line), date.Location())
		if ok && existing.After(target) {
			block = append(block, "")
			rest := append(block, lines[i:]...)
			return append(lines[:i:i], rest...)
		}
	}

	if needsSeparation(lines) {
		lines = append(lines, "")
	}
	return append(lines, block...)
}

func splitLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	// Drop the trailing empty element produced by Split when the input ends with a newline.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func needsSeparation(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	return strings.TrimSpace(lines[len(lines)-1]) != ""
}

func insertLine(lines []string, index int, line string) []string {
	if index < 0 || index > len(lines) {
		return append(lines, line)
	}
	lines = append(lines[:index], append([]string{line}, lines[index:]...)...)
	return lines
}

func writeLines(ctx context.Context, path string, lines []string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, "eldlog-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err == nil {
		if err := os.Chmod(temp.Name(), info.Mode()); err != nil {
			return err
		}
	}

	if err := os.Rename(temp.Name(), path); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("lines", len(lines)).Msg("month file written")
	return nil
}

func formatEntry(entry Entry) string {
	var builder strings.Builder
	builder.Grow(40 + len(entry.Remarks) + len(entry.Location))
	fmt.Fprintf(&builder, "- [%s] [%s-%s]", entry.Status, entry.Start.Format("15:04"), formatEnd(entry))

	if remarks := sanitize(entry.Remarks); remarks != "" {
		builder.WriteByte(' ')
		builder.WriteString(remarks)
	}
	if location := sanitize(entry.Location); location != "" {
		builder.WriteString(" " + locationSeparator + " ")
		builder.WriteString(location)
	}
	return builder.String()
}

func formatEnd(entry Entry) string {
	if entry.Open() {
		return ""
	}
	if !entry.End.Before(StartOfDay(entry.Start).AddDate(0, 0, 1)) {
		return endOfDayClock
	}
	return entry.End.Format("15:04")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitize keeps free text on one line and out of the location column.
func sanitize(text string) string {
	text = strings.ReplaceAll(text, locationSeparator, "/")
	return strings.Join(strings.Fields(text), " ")
}

// prepareEntry validates entry and pins its times onto the day of date.
func prepareEntry(date time.Time, entry Entry) (Entry, error) {
	if !entry.Status.Valid() {
		return Entry{}, fmt.Errorf("%w: status %q", ErrInvalidEntry, entry.Status)
	}

	day := StartOfDay(date)
	midnight := day.AddDate(0, 0, 1)

	entry.Start = clockOn(day, entry.Start)
	if !entry.End.IsZero() {
		if entry.End.Before(midnight) {
			entry.End = clockOn(day, entry.End)
		} else {
			entry.End = midnight
		}
		if entry.End.Before(entry.Start) {
			return Entry{}, fmt.Errorf("%w: ends %s before it starts %s",
				ErrOutOfOrder, entry.End.Format("15:04"), entry.Start.Format("15:04"))
		}
	}
	return entry, nil
}

func clockOn(day, t time.Time) time.Time {
	if t.IsZero() {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

func truncateMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}
