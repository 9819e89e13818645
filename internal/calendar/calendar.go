// Package calendar maps wall-clock time onto event day indexes.
package calendar

import "time"

// DayInactive is returned when the given time falls outside the event
// window. It is never a valid day index.
const DayInactive = -1

const dayLength = 24 * time.Hour

// Calendar derives the active event day from a configured start date and
// duration. It is pure; callers must re-evaluate on every check-in attempt
// because the active day changes at midnight rollover.
type Calendar struct {
	start        time.Time
	durationDays int
}

// New builds a Calendar. start is the beginning of day 1.
func New(start time.Time, durationDays int) *Calendar {
	return &Calendar{start: start, durationDays: durationDays}
}

// CurrentDay returns the event day active at now, or DayInactive.
func (c *Calendar) CurrentDay(now time.Time) int {
	return DayAt(now, c.start, c.durationDays)
}

// DurationDays reports the configured event length.
func (c *Calendar) DurationDays() int {
	return c.durationDays
}

// DayAt computes the 1-based event day for now: the number of 24h periods
// elapsed since start, rounded up, so any instant within day N maps to N.
// Times before the start or past the last day yield DayInactive.
func DayAt(now, start time.Time, durationDays int) int {
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return DayInactive
	}
	day := int(elapsed / dayLength)
	if elapsed%dayLength > 0 {
		day++
	}
	if day < 1 || day > durationDays {
		return DayInactive
	}
	return day
}
