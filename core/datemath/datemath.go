// Package datemath holds the calendar arithmetic used for wear-out dates.
// Every value returned here is a date: midnight UTC, no time-of-day component.
package datemath

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO-8601 date layout used in the ledger and on issuance cards.
const Layout = "2006-01-02"

// accepted input layouts, tried in order
var layouts = []string{
	Layout,
	"02.01.2006",
	"2006/01/02",
	"2006.01.02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Date builds a date value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time of day and location, keeping the calendar date as seen in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Today returns the current local calendar date.
func Today() time.Time {
	return Truncate(time.Now())
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// AddMonths adds n calendar months to start. When the start day does not exist in the
// target month the day is clamped to that month's last day (Jan 31 + 1 → Feb 28/29).
func AddMonths(start time.Time, n int) time.Time {
	y, m, d := start.Date()
	total := int(m) - 1 + n
	year := y + floorDiv(total, 12)
	month := time.Month(total-floorDiv(total, 12)*12 + 1)
	if last := DaysInMonth(year, month); d > last {
		d = last
	}
	return Date(year, month, d)
}

// DaysBetween returns the number of whole calendar days from `from` to `to`.
// The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	diff := Truncate(to).Sub(Truncate(from))
	return int(diff.Round(time.Hour).Hours() / 24)
}

// ParseDate parses a date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("datemath: empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Truncate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("datemath: unrecognized date %q", s)
}

// Format renders t as an ISO-8601 date, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
