package timeutil

import (
	"time"
)

// Eastern is the business timezone (America/New_York). Due-date math runs in
// this zone regardless of server locale.
var Eastern *time.Location

func init() {
	var err error
	Eastern, err = time.LoadLocation("America/New_York")
	if err != nil {
		// A fixed offset would shift day boundaries during DST, so a
		// missing tz database is fatal.
		panic("timeutil: America/New_York tz data unavailable: " + err.Error())
	}
}

// Now returns the current time in the business timezone.
func Now() time.Time {
	return time.Now().In(Eastern)
}

// ToEastern converts any time to the business timezone.
func ToEastern(t time.Time) time.Time {
	return t.In(Eastern)
}

// ParseInEastern parses a time string in the business timezone.
func ParseInEastern(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, Eastern)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatEastern formats a time in the business timezone.
func FormatEastern(t time.Time, layout string) string {
	return t.In(Eastern).Format(layout)
}

// StartOfDay returns 00:00:00 of t's day in the business timezone.
func StartOfDay(t time.Time) time.Time {
	et := t.In(Eastern)
	return time.Date(et.Year(), et.Month(), et.Day(), 0, 0, 0, 0, Eastern)
}

// EndOfDay returns 23:59:59.999999999 of t's day in the business timezone.
func EndOfDay(t time.Time) time.Time {
	et := t.In(Eastern)
	return time.Date(et.Year(), et.Month(), et.Day(), 23, 59, 59, 999999999, Eastern)
}

// DaysBetween returns the whole calendar days from a to b in the business
// timezone. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
