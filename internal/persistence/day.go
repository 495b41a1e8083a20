package persistence

import "time"

// DayLayout is the canonical calendar-day key format used by every backend.
const DayLayout = "2006-01-02"

// DayKey renders the calendar day of t in UTC. Bookings join on room name
// plus this key.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// NormalizeDate truncates t to midnight UTC so stored dates compare by
// calendar day only.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
