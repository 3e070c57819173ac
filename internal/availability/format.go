package availability

import (
	"fmt"
	"time"
)

const (
	clockLayout = "15:04"
	labelLayout = "3:04 PM"
)

// ClockRange is an interval rendered as wall-clock times on its day.
type ClockRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// Clock renders t as HH:MM relative to the window; the window's end renders
// as 24:00.
func (w Window) Clock(t time.Time) string {
	if !t.Before(w.End) {
		return "24:00"
	}
	return t.In(w.Start.Location()).Format(clockLayout)
}

// Label renders iv in 12-hour form, e.g. "9:00 AM - 5:00 PM". The window's
// end renders as "12:00 AM".
func (w Window) Label(iv Interval) string {
	loc := w.Start.Location()
	return fmt.Sprintf("%s - %s", iv.Start.In(loc).Format(labelLayout), iv.End.In(loc).Format(labelLayout))
}

// Render converts intervals to display ranges. The result is never nil.
func (w Window) Render(intervals []Interval) []ClockRange {
	out := make([]ClockRange, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, ClockRange{
			Start: w.Clock(iv.Start),
			End:   w.Clock(iv.End),
			Label: w.Label(iv),
		})
	}
	return out
}
