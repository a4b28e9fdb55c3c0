package utils

import "time"

// DateOnly strips the time-of-day component, keeping the location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses the wire format used for all date fields.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
