package models

import (
	"time"

	"gorm.io/gorm"
)

// BookingRule is a hotel-level policy shown to staff and guests (cancellation, pets, quiet hours).
type BookingRule struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	HotelID   string    `gorm:"type:varchar(36);not null;index" json:"hotel_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Active    bool      `gorm:"not null" json:"active"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *BookingRule) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
