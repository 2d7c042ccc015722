package validation

import "time"

// DateLayout is the wire format for date fields.
const DateLayout = "2006-01-02"

// AgeAt returns completed years between birth and now using calendar
// components: the age only increments once now's month/day reaches the
// birthday's month/day.
func AgeAt(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

// ParseDate parses a YYYY-MM-DD value as a UTC calendar date.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}
