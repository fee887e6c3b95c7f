package core

import "time"

// Month identifies one calendar month in a walk-forward sequence.
// Keeping year and month structured (instead of formatted labels)
// means formatting happens only at output boundaries.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths returns the month n steps forward (or backward for n < 0).
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

// ScreenDate is the as-of date used for screening within the month:
// the 15th, far enough from both boundaries to dodge month-end effects.
func (m Month) ScreenDate() time.Time {
	return time.Date(m.Year, m.Month, 15, 0, 0, 0, 0, time.UTC)
}

// Label formats the month for reports, e.g. "Feb 2024".
func (m Month) Label() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// Before reports whether m precedes o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}
