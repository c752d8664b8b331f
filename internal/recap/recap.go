// Package recap computes the hours-of-service recap printed at the bottom
// of the daily log.
package recap

import (
	"time"

	"github.com/faizmokh/eldlog/internal/config"
	"github.com/faizmokh/eldlog/internal/logbook"
)

// Rule describes one duty cycle: Limit hours over a window of days.
type Rule struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
	Days  int    `json:"days"`
}

var (
	// Rule70 is the 70 hour / 8 day cycle.
	Rule70 = Rule{Name: config.Cycle70Hour8Day, Limit: 70, Days: 8}
	// Rule60 is the 60 hour / 7 day cycle.
	Rule60 = Rule{Name: config.Cycle60Hour7Day, Limit: 60, Days: 7}
)

// RuleFor returns the rule named cycle, defaulting to Rule70.
func RuleFor(cycle string) Rule {
	if cycle == Rule60.Name {
		return Rule60
	}
	return Rule70
}

// Columns holds the A/B/C figures of one cycle.
//
// A is on-duty hours over the previous Days-1 days including today, B is
// the hours still available tomorrow (Limit - A) and C is on-duty hours over
// the full window including today. B goes negative when the limit is
// exceeded.
type Columns struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Recap is the hours summary for one day.
type Recap struct {
	Date        time.Time `json:"date"`
	Cycle       string    `json:"cycle"`
	OnDutyToday float64   `json:"on_duty_today"`
	Seventy     Columns   `json:"seventy_eight"`
	Sixty       Columns   `json:"sixty_seven"`
}

// Compute builds the recap for today from days, which may hold any range of
// days; only those inside the cycle windows count. Open entries run until
// now.
func Compute(days []logbook.Day, today, now time.Time, cycle string) Recap {
	today = logbook.StartOfDay(today)

	byAge := map[int]float64{}
	for _, day := range days {
		age := daysBetween(logbook.StartOfDay(day.Date), today)
		if age < 0 || age >= Rule70.Days {
			continue
		}
		byAge[age] += day.OnDuty(now).Hours()
	}

	sum := func(window int) float64 {
		var total float64
		for age := 0; age < window; age++ {
			total += byAge[age]
		}
		return total
	}
	columns := func(rule Rule) Columns {
		a := sum(rule.Days - 1)
		return Columns{A: a, B: float64(rule.Limit) - a, C: sum(rule.Days)}
	}

	return Recap{
		Date:        today,
		Cycle:       RuleFor(cycle).Name,
		OnDutyToday: byAge[0],
		Seventy:     columns(Rule70),
		Sixty:       columns(Rule60),
	}
}

// Selected returns the columns of the configured cycle.
func (r Recap) Selected() Columns {
	if r.Cycle == Rule60.Name {
		return r.Sixty
	}
	return r.Seventy
}

// Available returns the hours left tomorrow under the configured cycle.
func (r Recap) Available() float64 {
	return r.Selected().B
}

// Window returns the first day that can affect the recap for today.
func Window(today time.Time) time.Time {
	return logbook.StartOfDay(today).AddDate(0, 0, -(Rule70.Days - 1))
}

// daysBetween counts calendar days from a to b, ignoring DST length changes.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
