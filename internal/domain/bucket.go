package domain

import "time"

// Bucket key layouts. ISO ordering makes lexical order chronological.
const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// DateOnly returns midnight of t's calendar day in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayKey formats t as a daily bucket key (YYYY-MM-DD) in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return DateOnly(t, loc).Format(dayLayout)
}

// MonthKey formats t as a monthly bucket key (YYYY-MM) in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	return DateOnly(t, loc).Format(monthLayout)
}

// YearKey formats t as a yearly bucket key (YYYY) in loc.
func YearKey(t time.Time, loc *time.Location) string {
	return DateOnly(t, loc).Format(yearLayout)
}

// ParseDayKey parses a daily bucket key as midnight in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(dayLayout, key, loc)
}

// DaysBetween returns the number of calendar days from a to b.
// Only the dates matter, so DST transitions do not skew the result.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
