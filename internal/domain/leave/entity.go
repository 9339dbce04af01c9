package leave

import "time"

// Range is an approved absence as inclusive whole days. The approval workflow
// lives upstream; the timer engine only asks "does a range cover this date".
type Range struct {
	StartDate time.Time
	EndDate   time.Time
}

// Covers reports whether the range includes date, inclusive on both ends.
// Time-of-day is ignored; ranges are whole-day granularity.
func (r Range) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(r.StartDate.Truncate(24*time.Hour)) && !d.After(r.EndDate.Truncate(24*time.Hour))
}
