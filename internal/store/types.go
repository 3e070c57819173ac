package store

import "time"

// FeedItem represents a single booking record from the upstream feed.
type FeedItem struct {
	ID        string `json:"id"`
	VehicleID string `json:"vehicleId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`

	// Filled by the feed once the item has been parsed.
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// SyncResult summarizes one SyncBookings call.
type SyncResult struct {
	Created  int
	Updated  int
	Deleted  int
	Skipped  int
	Vehicles []string // Vehicles whose bookings changed, sorted
}
