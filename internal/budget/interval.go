package budget

import "time"

// Interval is a closed range of calendar days. Both ends are inclusive.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval normalises both bounds to calendar dates.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: DateOf(start), End: DateOf(end)}
}

// Contains reports whether the calendar date of t falls inside the interval.
func (i Interval) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(i.Start) && !d.After(i.End)
}

// Days returns the number of calendar days covered by the interval.
func (i Interval) Days() int {
	return int(i.End.Sub(i.Start).Hours()/24) + 1
}

// DateOf strips the clock from t, keeping the calendar date as seen in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CurrentInterval returns the interval a new budget of the given period covers at now.
// Weeks run Monday to Sunday; months run from the first to the last day.
func CurrentInterval(period Period, now time.Time) Interval {
	today := DateOf(now)

	switch period {
	case PeriodWeekly:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)

		return Interval{Start: start, End: start.AddDate(0, 0, 6)}
	default:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

		return Interval{Start: start, End: start.AddDate(0, 1, -1)}
	}
}
