package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"car-rental-backend/internal/model"
	"car-rental-backend/internal/parse"
	"car-rental-backend/internal/store"
)

//go:embed fleet.yaml
var fleetYAML []byte

// Fleet is the demo data set: the vehicles on offer and their bookings
// relative to a reference day.
type Fleet struct {
	Vehicles []model.Vehicle
	Bookings []model.Booking
}

type fleetFile struct {
	Vehicles []struct {
		ID           string `yaml:"id"`
		Name         string `yaml:"name"`
		Type         string `yaml:"type"`
		Transmission string `yaml:"transmission"`
		Fuel         string `yaml:"fuel"`
		Capacity     int    `yaml:"capacity"`
		Rate12h      int64  `yaml:"rate12h"`
		Rate24h      int64  `yaml:"rate24h"`
		Currency     string `yaml:"currency"`
		Description  string `yaml:"description"`
	} `yaml:"vehicles"`
	Bookings []struct {
		Vehicle   string `yaml:"vehicle"`
		Start     int    `yaml:"start"`
		End       int    `yaml:"end"`
		StartTime string `yaml:"startTime"`
		EndTime   string `yaml:"endTime"`
	} `yaml:"bookings"`
}

// Load materializes the embedded fleet with booking days counted from
// today's calendar date in today's location.
func Load(today time.Time) (Fleet, error) {
	return decode(fleetYAML, today)
}

func decode(raw []byte, today time.Time) (Fleet, error) {
	var file fleetFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return Fleet{}, fmt.Errorf("decode fleet: %w", err)
	}

	var fleet Fleet
	ids := make(map[string]struct{}, len(file.Vehicles))
	for _, v := range file.Vehicles {
		if v.ID == "" || v.Name == "" {
			return Fleet{}, fmt.Errorf("vehicle %q: id and name are required", v.Name)
		}
		currency := v.Currency
		if currency == "" {
			currency = "PHP"
		}
		ids[v.ID] = struct{}{}
		fleet.Vehicles = append(fleet.Vehicles, model.Vehicle{
			ID:           v.ID,
			Name:         v.Name,
			Type:         v.Type,
			Transmission: v.Transmission,
			Fuel:         v.Fuel,
			Capacity:     v.Capacity,
			Description:  v.Description,
			Rate12h:      v.Rate12h,
			Rate24h:      v.Rate24h,
			Currency:     currency,
		})
	}

	loc := today.Location()
	y, m, d := today.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for i, b := range file.Bookings {
		if _, ok := ids[b.Vehicle]; !ok {
			return Fleet{}, fmt.Errorf("booking %d: unknown vehicle %q", i, b.Vehicle)
		}
		span, err := parse.BookingSpan(
			base.AddDate(0, 0, b.Start).Format(parse.DateLayout),
			base.AddDate(0, 0, b.End).Format(parse.DateLayout),
			b.StartTime, b.EndTime, loc)
		if err != nil {
			return Fleet{}, fmt.Errorf("booking %d: %w", i, err)
		}
		fleet.Bookings = append(fleet.Bookings, model.Booking{
			VehicleID:   b.Vehicle,
			StartAt:     span.Start,
			EndAt:       span.End,
			Source:      model.SourceSeed,
			ExternalRef: fmt.Sprintf("seed-%d", i+1),
		})
	}
	return fleet, nil
}

// Apply writes the fleet into s, replacing any earlier seed bookings.
func Apply(ctx context.Context, s store.Store, fleet Fleet) error {
	if err := s.UpsertVehicles(ctx, fleet.Vehicles); err != nil {
		return fmt.Errorf("seed vehicles: %w", err)
	}
	if err := s.ReplaceBookings(ctx, model.SourceSeed, fleet.Bookings); err != nil {
		return fmt.Errorf("seed bookings: %w", err)
	}
	return nil
}
