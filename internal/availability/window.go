package availability

import "time"

// Interval is a span of time. Start is inclusive; End is exclusive except
// for a free slot that runs to the end of the day (see Window.LastMinute).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Empty reports whether the interval has no positive length.
func (iv Interval) Empty() bool {
	return !iv.End.After(iv.Start)
}

// Window is the calendar day being queried: [Start, End) where End is the
// following midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow returns the window for the calendar day containing date, using
// date's location for the midnight boundaries.
func DayWindow(date time.Time) Window {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	// AddDate keeps wall-clock midnight across DST transitions.
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// LastMinute is the start of the final minute of the day. A free slot
// survives the sweep only if it begins before this instant; it is then
// emitted up to End so it reads as ending at 24:00.
func (w Window) LastMinute() time.Time {
	return w.End.Add(-time.Minute)
}

// Overlaps reports whether [start, end) intersects the window.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// Clamp restricts [start, end) to the window.
func (w Window) Clamp(start, end time.Time) Interval {
	if start.Before(w.Start) {
		start = w.Start
	}
	if end.After(w.End) {
		end = w.End
	}
	return Interval{Start: start, End: end}
}
