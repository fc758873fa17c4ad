package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UnitStatus string

const (
	UnitAvailable    UnitStatus = "available"
	UnitOccupied     UnitStatus = "occupied"
	UnitMaintenance  UnitStatus = "maintenance"
	UnitOutOfService UnitStatus = "out_of_service"
)

var UnitStatuses = []UnitStatus{UnitAvailable, UnitOccupied, UnitMaintenance, UnitOutOfService}

func (s UnitStatus) Valid() bool {
	for _, v := range UnitStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Bookable reports whether new reservations may be taken for a unit in this state.
func (s UnitStatus) Bookable() bool {
	return s != UnitMaintenance && s != UnitOutOfService
}

// Unit is a rentable room or property of a hotel.
type Unit struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	HotelID     string          `gorm:"type:varchar(36);not null;index" json:"hotel_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Type        string          `gorm:"size:50" json:"type"`
	Floor       string          `gorm:"size:10" json:"floor"`
	Capacity    int             `gorm:"not null;default:1" json:"capacity"`
	NightlyRate decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"nightly_rate"`
	Status      UnitStatus      `gorm:"size:32;not null;default:available" json:"status"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
