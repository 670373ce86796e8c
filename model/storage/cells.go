package storage

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ppe.GO/core/datemath"
)

// ParseInt reads a whole number from a raw cell. Spreadsheet tools may store
// integers as "5.0"; fractional or non-numeric values are rejected.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// ParseDate reads a date cell written either as text or as an Excel serial day number.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := datemath.ParseDate(s); err == nil {
		return t, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return datemath.Truncate(t), true
}

// IntOrRaw returns the integer value of s when it parses, else s unchanged.
func IntOrRaw(s string) interface{} {
	if n, ok := ParseInt(s); ok {
		return n
	}
	return s
}

// DateOrRaw returns s normalized to ISO-8601 when it parses as a date, else s unchanged.
func DateOrRaw(s string) interface{} {
	if t, ok := ParseDate(s); ok {
		return datemath.Format(t)
	}
	return s
}
