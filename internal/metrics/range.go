package metrics

import "time"

// Range is a named time-window selector.
type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange converts a query value into a Range.
func ParseRange(s string) (Range, bool) {
	switch Range(s) {
	case RangeToday, RangeWeek, RangeMonth, RangeYear:
		return Range(s), true
	}
	return "", false
}

// DayFormat is the calendar-day key layout used throughout the engine.
const DayFormat = "2006-01-02"

// StartOfDay truncates to UTC midnight. All bucketing is UTC by contract;
// local time zones never influence day boundaries.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RangeStart returns the UTC midnight that opens the window for r.
// week and month are trailing inclusive windows anchored at today;
// year is calendar-aligned to Jan 1. The asymmetry is intentional
// (rolling windows vs fiscal year) and load-bearing for consumers.
func RangeStart(r Range, now time.Time) time.Time {
	today := StartOfDay(now)

	switch r {
	case RangeWeek:
		return today.AddDate(0, 0, -6)
	case RangeMonth:
		return today.AddDate(0, 0, -29)
	case RangeYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return today
}

// RangeWindow returns the inclusive [start, end] day bounds for r, both
// at UTC midnight. The end day is always today.
func RangeWindow(r Range, now time.Time) (time.Time, time.Time) {
	return RangeStart(r, now), StartOfDay(now)
}

// ListRangeDays enumerates the ordered, inclusive calendar-day keys of
// the window. Callers use it to pre-seed daily series so gaps render as
// zero instead of going missing.
func ListRangeDays(r Range, now time.Time) []string {
	start, end := RangeWindow(r, now)

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayFormat))
	}
	return days
}
