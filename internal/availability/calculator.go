package availability

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidInterval is returned when a booking ends before it starts.
var ErrInvalidInterval = errors.New("invalid interval: end precedes start")

// Status is the daily status of a vehicle.
type Status string

const (
	StatusVacant Status = "Vacant"
	StatusRented Status = "Rented"
)

// Booking is one reservation of one vehicle.
type Booking struct {
	VehicleID string
	Start     time.Time
	End       time.Time
}

// Result holds the availability of a single vehicle on a single day.
type Result struct {
	VehicleID string
	Window    Window
	Status    Status
	// FreeSlots is never nil; a rented vehicle has an empty slice.
	FreeSlots []Interval
	// Busy holds the clamped, merged booking spans. Together with FreeSlots
	// it covers the window exactly.
	Busy []Interval
}

// Compute returns the free slots of vehicleID on the day containing date.
//
// Bookings of other vehicles are ignored, including malformed ones. A
// booking of vehicleID whose End precedes its Start fails the computation
// with ErrInvalidInterval.
func Compute(vehicleID string, bookings []Booking, date time.Time) (Result, error) {
	window := DayWindow(date)

	busy := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.VehicleID != vehicleID {
			continue
		}
		if b.End.Before(b.Start) {
			return Result{}, fmt.Errorf("vehicle %s booking %s..%s: %w",
				vehicleID, b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339), ErrInvalidInterval)
		}
		if b.End.Equal(b.Start) || !window.Overlaps(b.Start, b.End) {
			continue
		}
		busy = append(busy, window.Clamp(b.Start, b.End))
	}

	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})

	free := make([]Interval, 0, len(busy)+1)
	var merged []Interval
	cursor := window.Start
	for _, iv := range busy {
		if iv.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: iv.Start})
			merged = append(merged, iv)
		} else if n := len(merged); n > 0 {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
		} else {
			merged = append(merged, iv)
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}

	if cursor.Before(window.LastMinute()) {
		free = append(free, Interval{Start: cursor, End: window.End})
	} else if cursor.Before(window.End) {
		// The trailing sub-minute sliver counts as busy.
		merged[len(merged)-1].End = window.End
	}

	slots := free[:0]
	for _, iv := range free {
		if !iv.Empty() {
			slots = append(slots, iv)
		}
	}

	status := StatusRented
	if len(slots) > 0 {
		status = StatusVacant
	}

	return Result{
		VehicleID: vehicleID,
		Window:    window,
		Status:    status,
		FreeSlots: slots,
		Busy:      merged,
	}, nil
}
