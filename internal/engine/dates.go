package engine

import "time"

const dateLayout = "2006-01-02"

// DateKey is the calendar date of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// previousDateKey returns the calendar day before now's date.
func previousDateKey(now time.Time) string {
	y, m, d := now.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, now.Location()).Format(dateLayout)
}
