package utils

import (
	"strings"
	"time"
)

const (
	layoutDate  = "2006-01-02"
	layoutClock = "15:04"
	layoutMonth = "2006-01"
)

// ParseDate parses YYYY-MM-DD in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), loc)
}

// ParseDateClock combines a YYYY-MM-DD date and HH:MM time in loc.
func ParseDateClock(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layoutDate+" "+layoutClock, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
}

// ParseMonth parses YYYY-MM and returns the first instant of that month in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layoutMonth, strings.TrimSpace(s), loc)
}

func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

func FormatClock(t time.Time) string {
	return t.Format(layoutClock)
}

func FormatMonth(t time.Time) string {
	return t.Format(layoutMonth)
}

// FormatHuman renders "Mon, 02 Jan 2006 15:04".
func FormatHuman(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon, 02 Jan 2006 15:04")
}

// DayKey truncates t to its calendar day in loc.
func DayKey(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
