package usage

import (
	"fmt"
	"time"
)

const isoDateLayout = "2006-01-02"

// FormatISODate renders the local calendar day of t as "YYYY-MM-DD".
// It reads year, month and day directly so the rendered day never
// shifts when the local clock is not UTC.
func FormatISODate(t time.Time) string {
	year, month, day := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// ParseISODate parses a strict "YYYY-MM-DD" date string.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO date %q: %w", s, err)
	}
	return t, nil
}

// EnumerateDays returns every calendar day from from to to inclusive,
// ascending. An inverted range (from > to) or a malformed date yields
// an empty slice rather than an error, so transient invalid picker
// states stay non-fatal.
func EnumerateDays(from, to string) []string {
	start, err := ParseISODate(from)
	if err != nil {
		return nil
	}
	end, err := ParseISODate(to)
	if err != nil {
		return nil
	}
	if start.After(end) {
		return nil
	}

	n := int(end.Sub(start).Hours()/24) + 1
	days := make([]string, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatISODate(d))
	}
	return days
}

// CompareISODate orders two ISO date strings. Plain string comparison
// is correct because the format is fixed-width "YYYY-MM-DD".
func CompareISODate(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
