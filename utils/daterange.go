package utils

import "time"

// DateLayout is the wire format for calendar dates everywhere in the app:
// request payloads, flat-file records and the booked-date lists on listings.
const DateLayout = "2006-01-02"

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day.
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}

// ParseDate parses a "2006-01-02" string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a calendar day as "2006-01-02".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Overlaps reports whether two half-open [start, end) date ranges share at
// least one day.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// NightsBetween returns the number of whole days between check-in and
// check-out. Negative ranges yield 0.
func NightsBetween(checkIn, checkOut time.Time) int {
	n := int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// DaysUntil returns the number of whole days from `from` until `until`.
// Negative when `until` is in the past.
func DaysUntil(from, until time.Time) int {
	return int(DateOnly(until).Sub(DateOnly(from)).Hours() / 24)
}

// DaysInRange lists every day of the half-open range [start, end).
func DaysInRange(start, end time.Time) []time.Time {
	var days []time.Time
	for d := DateOnly(start); d.Before(DateOnly(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
