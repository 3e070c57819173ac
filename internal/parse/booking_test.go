package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-rental-backend/internal/availability"
)

var manila = time.FixedZone("PHT", 8*60*60)

func TestDate(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "Standard date",
			raw:      "2026-03-10",
			expected: time.Date(2026, time.March, 10, 0, 0, 0, 0, manila),
		},
		{
			name:     "Surrounding spaces",
			raw:      " 2026-12-31 ",
			expected: time.Date(2026, time.December, 31, 0, 0, 0, 0, manila),
		},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Wrong layout", raw: "03/10/2026", expectErr: true},
		{name: "Impossible day", raw: "2026-02-30", expectErr: true},
		{name: "Timestamp", raw: "2026-03-10T00:00:00Z", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Date(tc.raw, manila)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
			} else {
				require.NoError(t, err)
				assert.True(t, tc.expected.Equal(d))
				assert.Equal(t, manila, d.Location())
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  Clock
		expectErr bool
	}{
		{name: "Morning", raw: "09:00", expected: Clock{Hour: 9}},
		{name: "Single digit hour", raw: "9:30", expected: Clock{Hour: 9, Minute: 30}},
		{name: "Dot separator", raw: "14.15", expected: Clock{Hour: 14, Minute: 15}},
		{name: "Last minute", raw: "23:59", expected: Clock{Hour: 23, Minute: 59}},
		{name: "End of day", raw: "24:00", expected: Clock{Hour: 24}},
		{name: "Past end of day", raw: "24:01", expectErr: true},
		{name: "Bad minute", raw: "10:60", expectErr: true},
		{name: "Seconds", raw: "10:00:00", expectErr: true},
		{name: "Garbage", raw: "noon", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseClock(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, c)
			}
		})
	}
}

func TestBookingSpan(t *testing.T) {
	day := func(d, h, m int) time.Time {
		return time.Date(2026, time.March, d, h, m, 0, 0, manila)
	}

	testCases := []struct {
		name               string
		startDate, endDate string
		startTime, endTime string
		expected           availability.Interval
		expectErr          error
	}{
		{
			name:      "Same day timed booking",
			startDate: "2026-03-12", endDate: "2026-03-12",
			startTime: "09:00", endTime: "17:00",
			expected: availability.Interval{Start: day(12, 9, 0), End: day(12, 17, 0)},
		},
		{
			name:      "Multi day booking crossing midnight",
			startDate: "2026-03-13", endDate: "2026-03-14",
			startTime: "14:00", endTime: "12:00",
			expected: availability.Interval{Start: day(13, 14, 0), End: day(14, 12, 0)},
		},
		{
			name:      "Day granular booking",
			startDate: "2026-03-15", endDate: "2026-03-18",
			expected: availability.Interval{Start: day(15, 0, 0), End: day(19, 0, 0)},
		},
		{
			name:      "Full day ending 23:59",
			startDate: "2026-03-20", endDate: "2026-03-20",
			startTime: "00:00", endTime: "23:59",
			expected: availability.Interval{Start: day(20, 0, 0), End: day(20, 23, 59)},
		},
		{
			name:      "End before start",
			startDate: "2026-03-12", endDate: "2026-03-12",
			startTime: "17:00", endTime: "09:00",
			expectErr: availability.ErrInvalidInterval,
		},
		{
			name:      "Bad date",
			startDate: "2026-13-01", endDate: "2026-03-12",
			expectErr: ErrInvalidDate,
		},
		{
			name:      "Bad time",
			startDate: "2026-03-12", endDate: "2026-03-12",
			startTime: "9am",
			expectErr: ErrInvalidClock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			iv, err := BookingSpan(tc.startDate, tc.endDate, tc.startTime, tc.endTime, manila)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Start.Equal(iv.Start), "start: want %s got %s", tc.expected.Start, iv.Start)
			assert.True(t, tc.expected.End.Equal(iv.End), "end: want %s got %s", tc.expected.End, iv.End)
		})
	}
}
