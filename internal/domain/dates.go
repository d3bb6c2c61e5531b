package domain

import "time"

// DateKey is the wire format for calendar dates.
const DateKey = "2006-01-02"

// DateOnly drops the time-of-day component, keeping the calendar date in
// the value's own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WholeDays returns the whole-day span between two dates, ignoring
// time-of-day. Inverted or incomplete ranges yield 0, never a negative.
// Dates are compared as UTC midnights so DST shifts cannot skew the span.
func WholeDays(from, to *time.Time) int {
	if from == nil || to == nil {
		return 0
	}
	days := int(utcMidnight(*to).Sub(utcMidnight(*from)) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

func utcMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an ordered pair of optional calendar dates. Both endpoints
// nil means no range; a single endpoint means the range is still being
// picked and spans nothing yet.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) Nights() int {
	return WholeDays(r.Start, r.End)
}

func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}
