package model

import "time"

// Booking sources.
const (
	SourceSeed = "seed"
	SourceFeed = "feed"
)

// Booking is one reservation of one vehicle. StartAt and EndAt are stored
// in UTC.
type Booking struct {
	ID          string    `gorm:"primaryKey;size:36"`
	VehicleID   string    `gorm:"index:idx_bookings_vehicle_span,priority:1;size:64;not null"`
	StartAt     time.Time `gorm:"index:idx_bookings_vehicle_span,priority:2;not null"`
	EndAt       time.Time `gorm:"index:idx_bookings_vehicle_span,priority:3;not null"`
	Source      string    `gorm:"uniqueIndex:idx_bookings_source_ref,priority:1;size:32;not null"`
	ExternalRef string    `gorm:"uniqueIndex:idx_bookings_source_ref,priority:2;size:128;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Vehicle Vehicle `gorm:"constraint:OnDelete:CASCADE"`
}
