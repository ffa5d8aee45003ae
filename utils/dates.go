// utils/dates.go
package utils

import "time"

const DayLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func AtHour(day time.Time, hour int) time.Time {
	year, month, d := day.Date()
	return time.Date(year, month, d, hour, 0, 0, 0, day.Location())
}

// ParseDay accepts a bare calendar date or a full RFC 3339 timestamp. Bare
// dates are read in loc; timestamps keep their own offset.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DayLayout, value, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
