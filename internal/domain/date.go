package domain

import "time"

// DateLayout is the wire/storage form of a calendar date: a date-only value
// used for day-boundary comparisons, distinct from display timestamps.
const DateLayout = "2006-01-02"

// DateOf formats a point in time as its calendar date in local time.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar date in local time.
func Today() string {
	return DateOf(time.Now())
}

// DayDiff returns the whole-day difference b - a between two calendar dates.
// A malformed date on either side yields 0; callers validate dates at the
// point of entry, so this only happens on hand-edited storage.
func DayDiff(a, b string) int {
	ta, err := time.Parse(DateLayout, a)
	if err != nil {
		return 0
	}
	tb, err := time.Parse(DateLayout, b)
	if err != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// PrevDay returns the calendar date one day before d, or "" if d is malformed.
func PrevDay(d string) string {
	t, err := time.Parse(DateLayout, d)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}
