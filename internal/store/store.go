package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"car-rental-backend/internal/model"
)

// ErrVehicleNotFound is returned when a vehicle ID is not in the fleet.
var ErrVehicleNotFound = errors.New("vehicle not found")

// Store defines the interface for all database operations.
type Store interface {
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (model.Vehicle, error)
	// ListBookings returns bookings overlapping [from, to). An empty
	// vehicleID selects every vehicle.
	ListBookings(ctx context.Context, vehicleID string, from, to time.Time) ([]model.Booking, error)

	UpsertVehicles(ctx context.Context, vehicles []model.Vehicle) error
	ReplaceBookings(ctx context.Context, source string, bookings []model.Booking) error
	SyncBookings(ctx context.Context, source string, items []FeedItem) (SyncResult, error)

	Ping(ctx context.Context) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gormStore{db: db, logger: logger}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *gormStore) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := s.db.WithContext(ctx).Order("name").Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *gormStore) GetVehicle(ctx context.Context, id string) (model.Vehicle, error) {
	var vehicle model.Vehicle
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Vehicle{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, id)
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return vehicle, nil
}

func (s *gormStore) ListBookings(ctx context.Context, vehicleID string, from, to time.Time) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).
		Where("start_at < ? AND end_at > ?", to.UTC(), from.UTC())
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}

	var bookings []model.Booking
	if err := q.Order("start_at").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// UpsertVehicles inserts the given vehicles or refreshes their metadata.
func (s *gormStore) UpsertVehicles(ctx context.Context, vehicles []model.Vehicle) error {
	if len(vehicles) == 0 {
		return nil
	}
	s.logger.Info("Upserting vehicles", zap.Int("count", len(vehicles)))
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "type", "transmission", "fuel", "capacity", "description",
			"rate12h", "rate24h", "currency", "updated_at",
		}),
	}).Create(&vehicles).Error
}

// ReplaceBookings drops every booking of the given source and stores the
// new set in one transaction.
func (s *gormStore) ReplaceBookings(ctx context.Context, source string, bookings []model.Booking) error {
	rows := make([]model.Booking, len(bookings))
	for i, b := range bookings {
		rows[i] = normalizeBooking(b, source)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source = ?", source).Delete(&model.Booking{}).Error; err != nil {
			return fmt.Errorf("clear %s bookings: %w", source, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return fmt.Errorf("insert %s bookings: %w", source, err)
		}
		return nil
	})
}

// SyncBookings makes the stored bookings of source match items: new
// records are inserted, changed ones updated and vanished ones deleted.
// Items referencing unknown vehicles are skipped.
func (s *gormStore) SyncBookings(ctx context.Context, source string, items []FeedItem) (SyncResult, error) {
	var result SyncResult

	known, err := s.vehicleIDs(ctx)
	if err != nil {
		return result, err
	}

	existing, err := s.bookingsBySource(ctx, source)
	if err != nil {
		return result, err
	}

	// Later duplicates of the same upstream ID win.
	latest := make(map[string]FeedItem, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := latest[item.ID]; !seen {
			order = append(order, item.ID)
		}
		latest[item.ID] = item
	}

	changed := make(map[string]struct{})
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range order {
			item := latest[ref]
			if _, ok := known[item.VehicleID]; !ok {
				s.logger.Warn("Skipping booking for unknown vehicle",
					zap.String("ref", ref), zap.String("vehicle_id", item.VehicleID))
				result.Skipped++
				continue
			}

			next := normalizeBooking(model.Booking{
				VehicleID:   item.VehicleID,
				StartAt:     item.Start,
				EndAt:       item.End,
				ExternalRef: ref,
			}, source)

			old, exists := existing[ref]
			if !exists {
				if err := tx.Omit(clause.Associations).Create(&next).Error; err != nil {
					return fmt.Errorf("create booking %s: %w", ref, err)
				}
				changed[next.VehicleID] = struct{}{}
				result.Created++
				continue
			}
			delete(existing, ref)

			if old.VehicleID == next.VehicleID && old.StartAt.Equal(next.StartAt) && old.EndAt.Equal(next.EndAt) {
				continue
			}
			if err := tx.Model(&model.Booking{}).Where("id = ?", old.ID).Updates(map[string]any{
				"vehicle_id": next.VehicleID,
				"start_at":   next.StartAt,
				"end_at":     next.EndAt,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
				return fmt.Errorf("update booking %s: %w", ref, err)
			}
			changed[old.VehicleID] = struct{}{}
			changed[next.VehicleID] = struct{}{}
			result.Updated++
		}

		for ref, gone := range existing {
			if err := tx.Delete(&model.Booking{}, "id = ?", gone.ID).Error; err != nil {
				return fmt.Errorf("delete booking %s: %w", ref, err)
			}
			changed[gone.VehicleID] = struct{}{}
			result.Deleted++
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, err
	}

	result.Vehicles = make([]string, 0, len(changed))
	for id := range changed {
		result.Vehicles = append(result.Vehicles, id)
	}
	sort.Strings(result.Vehicles)
	return result, nil
}

// --- Helper functions ---

func normalizeBooking(b model.Booking, source string) model.Booking {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.ExternalRef == "" {
		b.ExternalRef = b.ID
	}
	b.Source = source
	b.StartAt = b.StartAt.UTC()
	b.EndAt = b.EndAt.UTC()
	b.Vehicle = model.Vehicle{}
	return b
}

func (s *gormStore) vehicleIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&model.Vehicle{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("fetch vehicle ids: %w", err)
	}
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	return known, nil
}

func (s *gormStore) bookingsBySource(ctx context.Context, source string) (map[string]model.Booking, error) {
	var rows []model.Booking
	if err := s.db.WithContext(ctx).Where("source = ?", source).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch %s bookings: %w", source, err)
	}
	byRef := make(map[string]model.Booking, len(rows))
	for _, b := range rows {
		byRef[b.ExternalRef] = b
	}
	return byRef, nil
}
