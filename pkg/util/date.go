package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, plain dates, and unix seconds. Returns (t, true)
// if any format matched.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns def if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// FormatCandleDate formats a bar timestamp as a calendar date.
func FormatCandleDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
