package availability

import "time"

// BookedDates returns the midnights of every day in [from, to] (inclusive,
// in from's location) that overlaps at least one booking. Bookings without
// a positive length are skipped.
func BookedDates(bookings []Booking, from, to time.Time) []time.Time {
	first := DayWindow(from)
	last := DayWindow(to.In(from.Location()))

	var dates []time.Time
	for day := first; !day.Start.After(last.Start); day = DayWindow(day.End) {
		for _, b := range bookings {
			if !b.End.After(b.Start) {
				continue
			}
			if day.Overlaps(b.Start, b.End) {
				dates = append(dates, day.Start)
				break
			}
		}
	}
	return dates
}
