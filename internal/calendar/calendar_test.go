package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-rental-backend/internal/availability"
	"car-rental-backend/internal/model"
	"car-rental-backend/internal/parse"
)

var manila = time.FixedZone("PHT", 8*60*60)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.March, day, hour, minute, 0, 0, manila)
}

var errNotFound = errors.New("not found")

type fakeRepo struct {
	vehicles []model.Vehicle
	bookings []model.Booking
	err      error
}

func (f *fakeRepo) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Vehicle, len(f.vehicles))
	copy(out, f.vehicles)
	return out, nil
}

func (f *fakeRepo) GetVehicle(ctx context.Context, id string) (model.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return model.Vehicle{}, errNotFound
}

func (f *fakeRepo) ListBookings(ctx context.Context, vehicleID string, from, to time.Time) ([]model.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Booking
	for _, b := range f.bookings {
		if vehicleID != "" && b.VehicleID != vehicleID {
			continue
		}
		if b.StartAt.Before(to) && b.EndAt.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		vehicles: []model.Vehicle{
			{ID: "raize", Name: "Toyota Raize"},
			{ID: "mg5", Name: "MG5 CVT Core"},
			{ID: "brio", Name: "Honda Brio"},
		},
		bookings: []model.Booking{
			{VehicleID: "mg5", StartAt: at(12, 9, 0).UTC(), EndAt: at(12, 17, 0).UTC()},
			{VehicleID: "mg5", StartAt: at(13, 14, 0).UTC(), EndAt: at(14, 12, 0).UTC()},
			{VehicleID: "raize", StartAt: at(12, 18, 0).UTC(), EndAt: at(12, 22, 0).UTC()},
			{VehicleID: "mg5", StartAt: at(20, 0, 0).UTC(), EndAt: at(20, 23, 59).UTC()},
		},
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, manila, 92, nil, WithClock(func() time.Time {
		return time.Date(2026, time.March, 10, 1, 0, 0, 0, time.UTC)
	}))
}

func TestService_Today(t *testing.T) {
	s := newTestService(newFakeRepo())

	// 01:00 UTC is already 09:00 in Manila.
	assert.True(t, at(10, 0, 0).Equal(s.Today()))
	assert.Equal(t, manila, s.Today().Location())

	s.now = func() time.Time { return time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC) }
	assert.True(t, at(11, 0, 0).Equal(s.Today()))
}

func TestService_ParseDate(t *testing.T) {
	s := newTestService(newFakeRepo())

	d, err := s.ParseDate("")
	require.NoError(t, err)
	assert.True(t, at(10, 0, 0).Equal(d))

	d, err = s.ParseDate("2026-03-13")
	require.NoError(t, err)
	assert.True(t, at(13, 0, 0).Equal(d))

	_, err = s.ParseDate("13/03/2026")
	assert.ErrorIs(t, err, parse.ErrInvalidDate)
}

func TestService_VehicleAvailability(t *testing.T) {
	s := newTestService(newFakeRepo())
	ctx := context.Background()

	testCases := []struct {
		name     string
		vehicle  string
		date     time.Time
		status   availability.Status
		expected []availability.Interval
	}{
		{
			name:     "Single gap",
			vehicle:  "mg5",
			date:     at(12, 0, 0),
			status:   availability.StatusVacant,
			expected: []availability.Interval{{Start: at(12, 0, 0), End: at(12, 9, 0)}, {Start: at(12, 17, 0), End: at(13, 0, 0)}},
		},
		{
			name:     "Booking crossing midnight, first day",
			vehicle:  "mg5",
			date:     at(13, 0, 0),
			status:   availability.StatusVacant,
			expected: []availability.Interval{{Start: at(13, 0, 0), End: at(13, 14, 0)}},
		},
		{
			name:     "Booking crossing midnight, second day",
			vehicle:  "mg5",
			date:     at(14, 0, 0),
			status:   availability.StatusVacant,
			expected: []availability.Interval{{Start: at(14, 12, 0), End: at(15, 0, 0)}},
		},
		{
			name:     "Full day booking",
			vehicle:  "mg5",
			date:     at(20, 0, 0),
			status:   availability.StatusRented,
			expected: []availability.Interval{},
		},
		{
			name:     "Other vehicles are ignored",
			vehicle:  "brio",
			date:     at(12, 0, 0),
			status:   availability.StatusVacant,
			expected: []availability.Interval{{Start: at(12, 0, 0), End: at(13, 0, 0)}},
		},
		{
			name:     "Date given in another zone",
			vehicle:  "raize",
			date:     time.Date(2026, time.March, 12, 2, 0, 0, 0, time.UTC),
			status:   availability.StatusVacant,
			expected: []availability.Interval{{Start: at(12, 0, 0), End: at(12, 18, 0)}, {Start: at(12, 22, 0), End: at(13, 0, 0)}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			day, err := s.VehicleAvailability(ctx, tc.vehicle, tc.date)
			require.NoError(t, err)
			assert.Equal(t, tc.vehicle, day.Vehicle.ID)
			assert.Equal(t, tc.status, day.Status)
			require.Len(t, day.FreeSlots, len(tc.expected))
			for i := range tc.expected {
				assert.True(t, tc.expected[i].Start.Equal(day.FreeSlots[i].Start), "slot %d start", i)
				assert.True(t, tc.expected[i].End.Equal(day.FreeSlots[i].End), "slot %d end", i)
			}
		})
	}
}

func TestService_VehicleAvailabilityErrors(t *testing.T) {
	ctx := context.Background()

	s := newTestService(newFakeRepo())
	_, err := s.VehicleAvailability(ctx, "ghost", at(12, 0, 0))
	assert.ErrorIs(t, err, errNotFound)

	repo := newFakeRepo()
	repo.bookings = append(repo.bookings, model.Booking{VehicleID: "brio", StartAt: at(12, 10, 0), EndAt: at(12, 9, 0)})
	s = newTestService(repo)
	_, err = s.VehicleAvailability(ctx, "brio", at(12, 0, 0))
	assert.ErrorIs(t, err, availability.ErrInvalidInterval)
}

func TestService_FleetAvailability(t *testing.T) {
	s := newTestService(newFakeRepo())

	days, err := s.FleetAvailability(context.Background(), at(12, 0, 0))
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, "Honda Brio", days[0].Vehicle.Name)
	assert.Equal(t, "MG5 CVT Core", days[1].Vehicle.Name)
	assert.Equal(t, "Toyota Raize", days[2].Vehicle.Name)

	assert.Len(t, days[0].FreeSlots, 1)
	assert.Len(t, days[1].FreeSlots, 2)
	assert.Len(t, days[2].FreeSlots, 2)

	full, err := s.FleetAvailability(context.Background(), at(20, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, availability.StatusRented, full[1].Status)
	assert.Equal(t, availability.StatusVacant, full[0].Status)

	failing := &fakeRepo{err: errors.New("db down")}
	_, err = newTestService(failing).FleetAvailability(context.Background(), at(12, 0, 0))
	assert.Error(t, err)
}

func TestService_BookedDates(t *testing.T) {
	s := newTestService(newFakeRepo())
	ctx := context.Background()

	dates, err := s.BookedDates(ctx, at(1, 0, 0), at(31, 0, 0))
	require.NoError(t, err)
	want := []time.Time{at(12, 0, 0), at(13, 0, 0), at(14, 0, 0), at(20, 0, 0)}
	require.Len(t, dates, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(dates[i]), "date %d", i)
	}

	_, err = s.BookedDates(ctx, at(20, 0, 0), at(10, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = s.BookedDates(ctx, at(1, 0, 0), at(1, 0, 0).AddDate(0, 0, 92))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = s.BookedDates(ctx, at(1, 0, 0), at(1, 0, 0).AddDate(0, 0, 91))
	assert.NoError(t, err)
}

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(at(10, 15, 0))
	assert.True(t, at(1, 0, 0).Equal(first))
	assert.True(t, at(31, 0, 0).Equal(last))

	first, last = MonthRange(time.Date(2028, time.February, 14, 0, 0, 0, 0, manila))
	assert.Equal(t, 1, first.Day())
	assert.Equal(t, 29, last.Day())
}
