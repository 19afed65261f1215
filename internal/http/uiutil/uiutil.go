// Package uiutil holds small formatting helpers shared by templates and handlers.
package uiutil

import (
	"strconv"
	"time"
)

const (
	FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"
	DateLayout             = "Mon, Jan 2 2006"
	ClockLayout            = "3:04 PM"
)

// FriendlyRelativeTime describes how long before now t occurred, e.g. "5 minutes ago".
// Times in the future read as "just now". Anything older than a week is shown as a date.
func FriendlyRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return FormatFriendlyDateTime(t)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}

// FormatFriendlyDateTime returns a consistent, user-friendly timestamp.
// API timestamps are UTC and shown as such so appointment times match what was booked.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(FriendlyDateTimeLayout)
}

// FormatDate renders the date part only.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// FormatClock renders the time of day only.
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ClockLayout)
}
