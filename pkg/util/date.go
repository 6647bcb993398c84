package util

import (
    "time"
)

// DateLayout is the wire format for trading dates (daily bars).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as UTC midnight. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        return time.Time{}, false
    }
    return t.UTC(), true
}

// ParseDateDefault parses a date or returns the default if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
    if t, ok := ParseDate(s); ok {
        return t
    }
    return def
}

// DayUTC truncates t to UTC midnight of its calendar day.
func DayUTC(t time.Time) time.Time {
    t = t.UTC()
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
    return t.UTC().Format(DateLayout)
}
