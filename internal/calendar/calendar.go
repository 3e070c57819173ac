package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"car-rental-backend/internal/availability"
	"car-rental-backend/internal/model"
	"car-rental-backend/internal/parse"
)

// ErrInvalidRange is returned for a booked-dates range that is inverted or
// longer than the configured maximum.
var ErrInvalidRange = errors.New("invalid date range")

// Repository is the read side of the booking store.
type Repository interface {
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (model.Vehicle, error)
	ListBookings(ctx context.Context, vehicleID string, from, to time.Time) ([]model.Booking, error)
}

// VehicleDay is the availability of one vehicle on one day.
type VehicleDay struct {
	Vehicle model.Vehicle
	availability.Result
}

// Service answers availability questions in the business time zone.
type Service struct {
	repo     Repository
	loc      *time.Location
	maxRange int
	logger   *zap.Logger

	now func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a calendar service. maxRangeDays bounds BookedDates.
func NewService(repo Repository, loc *time.Location, maxRangeDays int, logger *zap.Logger, opts ...Option) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:     repo,
		loc:      loc,
		maxRange: maxRangeDays,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the business time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns midnight of the current day in the business time zone.
func (s *Service) Today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// ParseDate reads a YYYY-MM-DD query value. An empty value means today.
func (s *Service) ParseDate(raw string) (time.Time, error) {
	if raw == "" {
		return s.Today(), nil
	}
	return parse.Date(raw, s.loc)
}

// VehicleAvailability computes the free slots of one vehicle on date.
func (s *Service) VehicleAvailability(ctx context.Context, vehicleID string, date time.Time) (VehicleDay, error) {
	vehicle, err := s.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return VehicleDay{}, err
	}

	window := availability.DayWindow(date.In(s.loc))
	rows, err := s.repo.ListBookings(ctx, vehicleID, window.Start, window.End)
	if err != nil {
		return VehicleDay{}, err
	}

	result, err := availability.Compute(vehicleID, toBookings(rows), window.Start)
	if err != nil {
		return VehicleDay{}, err
	}
	return VehicleDay{Vehicle: vehicle, Result: result}, nil
}

// FleetAvailability computes the daily status of every vehicle, ordered by
// vehicle name.
func (s *Service) FleetAvailability(ctx context.Context, date time.Time) ([]VehicleDay, error) {
	vehicles, err := s.repo.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(vehicles, func(i, j int) bool { return vehicles[i].Name < vehicles[j].Name })

	window := availability.DayWindow(date.In(s.loc))
	rows, err := s.repo.ListBookings(ctx, "", window.Start, window.End)
	if err != nil {
		return nil, err
	}
	bookings := toBookings(rows)

	days := make([]VehicleDay, 0, len(vehicles))
	for _, v := range vehicles {
		result, err := availability.Compute(v.ID, bookings, window.Start)
		if err != nil {
			return nil, err
		}
		days = append(days, VehicleDay{Vehicle: v, Result: result})
	}
	return days, nil
}

// BookedDates lists the days in [from, to] touched by at least one booking
// of any vehicle.
func (s *Service) BookedDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	first := availability.DayWindow(from.In(s.loc)).Start
	last := availability.DayWindow(to.In(s.loc))
	if last.Start.Before(first) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidRange,
			last.Start.Format(parse.DateLayout), first.Format(parse.DateLayout))
	}
	if s.maxRange > 0 && first.AddDate(0, 0, s.maxRange).Before(last.End) {
		return nil, fmt.Errorf("%w: more than %d days", ErrInvalidRange, s.maxRange)
	}

	rows, err := s.repo.ListBookings(ctx, "", first, last.End)
	if err != nil {
		return nil, err
	}
	dates := availability.BookedDates(toBookings(rows), first, last.Start)
	s.logger.Debug("Booked dates computed",
		zap.Time("from", first), zap.Time("to", last.Start), zap.Int("count", len(dates)))
	return dates, nil
}

// MonthRange returns the first and last day of the month containing day.
func MonthRange(day time.Time) (time.Time, time.Time) {
	y, m, _ := day.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, day.Location())
	return first, first.AddDate(0, 1, -1)
}

func toBookings(rows []model.Booking) []availability.Booking {
	bookings := make([]availability.Booking, len(rows))
	for i, r := range rows {
		bookings[i] = availability.Booking{VehicleID: r.VehicleID, Start: r.StartAt, End: r.EndAt}
	}
	return bookings
}
