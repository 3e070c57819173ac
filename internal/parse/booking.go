package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"car-rental-backend/internal/availability"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a calendar date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidClock is returned when a time of day cannot be parsed.
var ErrInvalidClock = errors.New("invalid time of day")

var clockRe = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)

// Clock is a wall-clock time of day. 24:00 is allowed and means the
// following midnight.
type Clock struct {
	Hour   int
	Minute int
}

// Date parses a YYYY-MM-DD string as midnight in loc.
func Date(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// ParseClock parses "HH:MM" (or "H:MM", "HH.MM").
func ParseClock(raw string) (Clock, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	h, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if h > 24 || minute > 59 || (h == 24 && minute != 0) {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return Clock{Hour: h, Minute: minute}, nil
}

// On returns the clock as an instant on the given day.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	if c.Hour == 24 {
		return midnight.AddDate(0, 0, 1)
	}
	return midnight.Add(time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute)
}

// BookingSpan converts a day-ranged booking with optional time-of-day fields
// into an interval in loc. A missing start time means the start of the
// first day; a missing end time means the end of the last day, so a booking
// with dates only occupies every day in its range.
func BookingSpan(startDate, endDate, startTime, endTime string, loc *time.Location) (availability.Interval, error) {
	first, err := Date(startDate, loc)
	if err != nil {
		return availability.Interval{}, fmt.Errorf("start date: %w", err)
	}
	last, err := Date(endDate, loc)
	if err != nil {
		return availability.Interval{}, fmt.Errorf("end date: %w", err)
	}

	start := first
	if strings.TrimSpace(startTime) != "" {
		c, err := ParseClock(startTime)
		if err != nil {
			return availability.Interval{}, fmt.Errorf("start time: %w", err)
		}
		start = c.On(first)
	}

	end := last.AddDate(0, 0, 1)
	if strings.TrimSpace(endTime) != "" {
		c, err := ParseClock(endTime)
		if err != nil {
			return availability.Interval{}, fmt.Errorf("end time: %w", err)
		}
		end = c.On(last)
	}

	if end.Before(start) {
		return availability.Interval{}, fmt.Errorf("%s %s..%s %s: %w",
			startDate, startTime, endDate, endTime, availability.ErrInvalidInterval)
	}
	return availability.Interval{Start: start, End: end}, nil
}
