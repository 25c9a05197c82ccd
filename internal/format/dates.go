// Package format holds display helpers: dates for the en-AU locale, CSV
// fields, and composite box identifiers.
package format

import (
	"time"

	"github.com/jinzhu/now"
)

const (
	displayLayout       = "02/01/2006, 03:04 pm"
	datetimeLocalLayout = "2006-01-02T15:04"
)

// DateTime renders t as dd/mm/yyyy, hh:mm am|pm in loc.
func DateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(displayLayout)
}

// DateTimeLocal renders t for an <input type="datetime-local"> in loc.
func DateTimeLocal(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(datetimeLocalLayout)
}

// ParseDateTimeLocal reads a datetime-local input value as a time in loc.
func ParseDateTimeLocal(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(datetimeLocalLayout, s, loc)
}

// TodayMidnight returns 00:00 of the day containing t in loc.
func TodayMidnight(t time.Time, loc *time.Location) time.Time {
	return now.With(t.In(loc)).BeginningOfDay()
}

// IsSameDay reports whether a and b fall on the same calendar day in loc.
func IsSameDay(a, b time.Time, loc *time.Location) bool {
	return TodayMidnight(a, loc).Equal(TodayMidnight(b, loc))
}
