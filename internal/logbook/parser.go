package logbook

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/faizmokh/eldlog/internal/duty"
)

// Parser incrementally reads Markdown logbooks and emits days as they are discovered.
type Parser struct {
	r        io.Reader
	loc      *time.Location
	scanner  *bufio.Scanner
	pending  *Day
	initDone bool
}

// NewParser returns a parser ready to tokenize Markdown from r. Headings are
// interpreted in loc, or UTC when loc is nil.
func NewParser(r io.Reader, loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{r: r, loc: loc}
}

// NextDay streams the next parsed Day, returning io.EOF once the input is
// exhausted.
func (p *Parser) NextDay() (*Day, error) {
	if p.r == nil && p.scanner == nil && p.pending == nil {
		return nil, io.EOF
	}

	if !p.initDone {
		if p.r == nil {
			return nil, io.EOF
		}
		p.scanner = bufio.NewScanner(p.r)
		p.initDone = true
	}

	day := p.pending
	p.pending = nil

	if day == nil {
		var err error
		day, err = p.consumeUntilDay()
		if err != nil {
			return nil, err
		}
		if day == nil {
			return nil, io.EOF
		}
	}

	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if date, ok := parseDayHeading(line, p.loc); ok {
			p.pending = &Day{Date: date}
			return day, nil
		}

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		if key, value, ok := parseMetaLine(line); ok {
			applyMeta(day, key, value)
			continue
		}

		if entry, ok := parseEntryLine(line, day.Date); ok {
			day.Entries = append(day.Entries, entry)
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return day, nil
}

func (p *Parser) consumeUntilDay() (*Day, error) {
	for p.scanner.Scan() {
		line := strings.TrimSpace(p.scanner.Text())
		if date, ok := parseDayHeading(line, p.loc); ok {
			return &Day{Date: date}, nil
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

var (
	entryPattern = regexp.MustCompile(`^- \[([a-z-]+)\] \[(\d{2}:\d{2})-(\d{2}:\d{2})?\](.*)$`)
	metaPattern  = regexp.MustCompile(`^> ([a-z]+):\s*(.*)$`)
)

const (
	metaMiles = "miles"
	metaRoute = "route"

	routeSeparator    = " -> "
	locationSeparator = "|"
	endOfDayClock     = "24:00"
)

func parseEntryLine(line string, date time.Time) (Entry, bool) {
	matches := entryPattern.FindStringSubmatch(line)
	if matches == nil {
		return Entry{}, false
	}

	status := duty.Status(matches[1])
	if !status.Valid() {
		return Entry{}, false
	}

	start, ok := parseClock(date, matches[2])
	if !ok {
		return Entry{}, false
	}

	var end time.Time
	if matches[3] != "" {
		end, ok = parseClock(date, matches[3])
		if !ok {
			return Entry{}, false
		}
	}

	remarks, location := splitRemarks(matches[4])

	return Entry{
		Status:   status,
		Start:    start,
		End:      end,
		Remarks:  remarks,
		Location: location,
	}, true
}

func parseClock(date time.Time, value string) (time.Time, bool) {
	if value == endOfDayClock {
		return StartOfDay(date).AddDate(0, 0, 1), true
	}
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		date.Location(),
	), true
}

func splitRemarks(rest string) (string, string) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", ""
	}
	idx := strings.LastIndex(rest, locationSeparator)
	if idx < 0 {
		return rest, ""
	}
	return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+1:])
}

func parseDayHeading(line string, loc *time.Location) (time.Time, bool) {
	if !strings.HasPrefix(line, "## ") {
		return time.Time{}, false
	}
	dateStr := strings.TrimSpace(line[3:])
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func parseMetaLine(line string) (string, string, bool) {
	matches := metaPattern.FindStringSubmatch(line)
	if matches == nil {
		return "", "", false
	}
	return matches[1], strings.TrimSpace(matches[2]), true
}

func applyMeta(day *Day, key, value string) {
	switch key {
	case metaMiles:
		day.Miles = parseMiles(value)
	case metaRoute:
		from, to, _ := strings.Cut(value, routeSeparator)
		day.Route = Route{From: strings.TrimSpace(from), To: strings.TrimSpace(to)}
	}
}

func parseMiles(value string) Mileage {
	driving, total, _ := strings.Cut(value, "/")
	var m Mileage
	if v, err := strconv.ParseFloat(strings.TrimSpace(driving), 64); err == nil {
		m.Driving = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(total), 64); err == nil {
		m.Total = v
	} else {
		m.Total = m.Driving
	}
	return m
}
