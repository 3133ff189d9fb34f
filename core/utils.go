package core

import (
	"strings"
	"time"
)

// DateFormat is the calendar-date layout used for all date-granularity fields
// (due dates, issue dates, payment dates). Lexicographic comparison of two
// dates in this layout matches chronological order.
const DateFormat = "2006-01-02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// FormatDate truncates t to calendar-date granularity.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// IsDate reports whether s is a valid DateFormat date.
func IsDate(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}
