package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookedDates(t *testing.T) {
	bookings := []Booking{
		{VehicleID: "mg5", Start: at(3, 14, 0), End: at(5, 12, 0)},
		{VehicleID: "raize", Start: at(5, 18, 0), End: at(5, 22, 0)},
		{VehicleID: "brio", Start: at(8, 0, 0), End: at(9, 0, 0)},  // ends at midnight
		{VehicleID: "brio", Start: at(12, 9, 0), End: at(12, 9, 0)}, // zero length
		{VehicleID: "brio", Start: at(20, 9, 0), End: at(20, 8, 0)}, // inverted
	}

	dates := BookedDates(bookings, at(1, 0, 0), at(31, 0, 0))

	want := []time.Time{at(3, 0, 0), at(4, 0, 0), at(5, 0, 0), at(8, 0, 0)}
	assert.Len(t, dates, len(want))
	for i := range want {
		if i < len(dates) {
			assert.True(t, want[i].Equal(dates[i]), "date %d: want %s got %s", i, want[i], dates[i])
		}
	}
}

func TestBookedDates_RangeIsInclusive(t *testing.T) {
	bookings := []Booking{
		{VehicleID: "mg5", Start: at(10, 9, 0), End: at(10, 17, 0)},
	}

	dates := BookedDates(bookings, at(10, 0, 0), at(10, 0, 0))
	assert.Len(t, dates, 1)

	dates = BookedDates(bookings, at(11, 0, 0), at(12, 0, 0))
	assert.Empty(t, dates)
}
