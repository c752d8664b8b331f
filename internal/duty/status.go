// Package duty names the four Hours-of-Service duty statuses a driver's
// time is split into.
package duty

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when input does not name a duty status.
var ErrUnknownStatus = errors.New("unknown duty status")

// Status is one of the mutually exclusive duty categories of the daily log.
type Status string

const (
	// OffDuty is line 1 of the form.
	OffDuty Status = "off-duty"
	// SleeperBerth is line 2 of the form.
	SleeperBerth Status = "sleeper-berth"
	// Driving is line 3 of the form.
	Driving Status = "driving"
	// OnDuty is line 4 of the form: on duty, not driving.
	OnDuty Status = "on-duty-not-driving"
)

var all = []Status{OffDuty, SleeperBerth, Driving, OnDuty}

var labels = map[Status]string{
	OffDuty:      "Off Duty",
	SleeperBerth: "Sleeper Berth",
	Driving:      "Driving",
	OnDuty:       "On Duty (not driving)",
}

var aliases = map[string]Status{
	"off":         OffDuty,
	"offduty":     OffDuty,
	"sb":          SleeperBerth,
	"sleeper":     SleeperBerth,
	"berth":       SleeperBerth,
	"d":           Driving,
	"drive":       Driving,
	"on":          OnDuty,
	"onduty":      OnDuty,
	"on-duty":     OnDuty,
	"not-driving": OnDuty,
}

// All returns the statuses in the order they appear on the daily log.
func All() []Status {
	out := make([]Status, len(all))
	copy(out, all)
	return out
}

// Parse resolves a status code, display label, or short alias.
func Parse(input string) (Status, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	for _, s := range all {
		if value == string(s) || value == strings.ToLower(labels[s]) {
			return s, nil
		}
	}
	if s, ok := aliases[value]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w %q (expected off, sb, d or on)", ErrUnknownStatus, input)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the human-readable name printed on the form.
func (s Status) Label() string {
	if label, ok := labels[s]; ok {
		return label
	}
	return string(s)
}

// OnDuty reports whether time in s counts against the on-duty limits
// (lines 3 and 4).
func (s Status) OnDuty() bool {
	return s == Driving || s == OnDuty
}

func (s Status) String() string {
	return string(s)
}
