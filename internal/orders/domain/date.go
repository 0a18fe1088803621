package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minCodeLength = 8
	// Longer digit runs cannot describe a calendar date.
	maxCodeDigits = 9
)

// ResolveDate recovers the calendar date encoded in an order code such as
// "25-03-07-001": two-digit year, month and day, followed by segments that are
// ignored. The result is midnight in loc.
//
// Month and day are not range-checked; time.Date normalises them, so
// "25-13-01" resolves to 2026-01-01 and "25-02-30" to 2025-03-02.
// ok is false when the code does not carry a date.
func ResolveDate(code string, loc *time.Location) (time.Time, bool) {
	if utf8.RuneCountInString(code) < minCodeLength {
		return time.Time{}, false
	}

	parts := strings.Split(code, "-")
	if len(parts) < 3 {
		return time.Time{}, false
	}

	if _, ok := leadingInt(parts[0]); !ok {
		return time.Time{}, false
	}
	year, ok := leadingInt("20" + parts[0])
	if !ok {
		return time.Time{}, false
	}
	month, ok := leadingInt(parts[1])
	if !ok {
		return time.Time{}, false
	}
	day, ok := leadingInt(parts[2])
	if !ok {
		return time.Time{}, false
	}

	// Years below 100 are read as 19xx, matching the platform date constructor.
	if year >= 0 && year < 100 {
		year += 1900
	}

	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), true
}

// leadingInt reads the integer at the start of s: optional whitespace and
// sign, then digits. Anything after the digits is ignored.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n\v\f")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s); digits++ {
		c := s[digits]
		if c < '0' || c > '9' {
			break
		}
		if digits == maxCodeDigits {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if digits == 0 {
		return 0, false
	}

	if neg {
		n = -n
	}
	return n, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
