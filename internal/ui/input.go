package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/faizmokh/eldlog/internal/duty"
	"github.com/faizmokh/eldlog/internal/logbook"
)

// entryInput is a parsed prompt line:
//
//	!driving @06:00-09:30 remarks | location
type entryInput struct {
	remarks  string
	location string
	hasPlace bool
	status   *duty.Status
	start    *time.Time
	end      *time.Time
	open     bool
}

func parseInputLine(input string, base time.Time) (entryInput, error) {
	result := entryInput{}
	if strings.TrimSpace(input) == "" {
		return result, nil
	}

	if idx := strings.LastIndex(input, "|"); idx >= 0 {
		result.location = strings.TrimSpace(input[idx+1:])
		result.hasPlace = true
		input = input[:idx]
	}

	var remarkParts []string
	for _, token := range strings.Fields(input) {
		switch {
		case strings.HasPrefix(token, "@") && len(token) > 1:
			if err := result.parseTimes(token[1:], base); err != nil {
				return entryInput{}, err
			}
		case strings.HasPrefix(token, "!") && len(token) > 1:
			status, err := duty.Parse(token[1:])
			if err != nil {
				return entryInput{}, fmt.Errorf("invalid status %q (expected !off, !sb, !driving or !on)", token)
			}
			result.status = &status
		default:
			remarkParts = append(remarkParts, token)
		}
	}

	result.remarks = strings.TrimSpace(strings.Join(remarkParts, " "))
	return result, nil
}

// parseTimes reads HH:MM, HH:MM-HH:MM or HH:MM- (still running).
func (in *entryInput) parseTimes(value string, base time.Time) error {
	startText, endText, hasEnd := strings.Cut(value, "-")

	start, err := clockOn(base, startText)
	if err != nil {
		return err
	}
	in.start = &start

	switch {
	case !hasEnd:
	case endText == "":
		in.open = true
	default:
		end, err := clockOn(base, endText)
		if err != nil {
			return err
		}
		in.end = &end
	}
	return nil
}

func clockOn(base time.Time, value string) (time.Time, error) {
	if value == "24:00" {
		return logbook.StartOfDay(base).AddDate(0, 0, 1), nil
	}
	parsed, err := time.ParseInLocation("15:04", value, base.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected HH:MM)", value)
	}
	return time.Date(base.Year(), base.Month(), base.Day(), parsed.Hour(), parsed.Minute(), 0, 0, base.Location()), nil
}

func entryToInput(entry logbook.Entry) string {
	parts := []string{"!" + string(entry.Status)}

	span := "@" + entry.Start.Format("15:04") + "-"
	switch {
	case entry.Open():
	case !entry.End.Before(logbook.StartOfDay(entry.Start).AddDate(0, 0, 1)):
		span += "24:00"
	default:
		span += entry.End.Format("15:04")
	}
	parts = append(parts, span)

	if strings.TrimSpace(entry.Remarks) != "" {
		parts = append(parts, strings.Fields(entry.Remarks)...)
	}
	line := strings.Join(parts, " ")
	if entry.Location != "" {
		line += " | " + entry.Location
	}
	return line
}

// apply merges parsed fields into entry.
func (in entryInput) apply(entry logbook.Entry) logbook.Entry {
	if in.status != nil {
		entry.Status = *in.status
	}
	if in.start != nil {
		entry.Start = *in.start
	}
	switch {
	case in.open:
		entry.End = time.Time{}
	case in.end != nil:
		entry.End = *in.end
	}
	entry.Remarks = in.remarks
	if in.hasPlace {
		entry.Location = in.location
	}
	return entry
}
