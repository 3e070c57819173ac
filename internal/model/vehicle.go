package model

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ratePrinter = message.NewPrinter(language.English)

// Vehicle is a rentable car in the fleet.
type Vehicle struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Type         string    `gorm:"size:64" json:"type"`
	Transmission string    `gorm:"size:32" json:"transmission"`
	Fuel         string    `gorm:"size:32" json:"fuel"`
	Capacity     int       `json:"capacity"`
	Description  string    `gorm:"size:1024" json:"description"`
	Rate12h      int64     `gorm:"column:rate12h;not null" json:"rate12h"` // Whole currency units
	Rate24h      int64     `gorm:"column:rate24h;not null" json:"rate24h"`
	Currency     string    `gorm:"size:3;not null;default:PHP" json:"currency"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// DisplayRate12h renders the 12-hour rate, e.g. "₱1,500".
func (v Vehicle) DisplayRate12h() string {
	return displayRate(v.Currency, v.Rate12h)
}

// DisplayRate24h renders the 24-hour rate, e.g. "₱2,500".
func (v Vehicle) DisplayRate24h() string {
	return displayRate(v.Currency, v.Rate24h)
}

func displayRate(currency string, amount int64) string {
	symbol := currency + " "
	switch currency {
	case "", "PHP":
		symbol = "₱"
	case "USD":
		symbol = "$"
	}
	return symbol + ratePrinter.Sprintf("%d", amount)
}
