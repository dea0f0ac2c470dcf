package dateutil

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing a stored birth date.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Age calculates the age in whole years at a given date.
// A birth date after atDate yields 0.
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// AgeFromString calculates the age for a birth date stored as text.
// Empty or unparseable input returns 0; callers that need a horizon must
// check for a usable birth date first.
func AgeFromString(birthDate string, atDate time.Time) int {
	bd, ok := ParseDate(birthDate)
	if !ok {
		return 0
	}
	return Age(bd, atDate)
}

// ParseDate parses an ISO calendar date, also accepting full timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BirthYear returns the calendar year of a stored birth date.
func BirthYear(birthDate string) (int, bool) {
	bd, ok := ParseDate(birthDate)
	if !ok {
		return 0, false
	}
	return bd.Year(), true
}
