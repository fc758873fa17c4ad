package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Guest belongs to one hotel. Email is stored lower-cased and is unique per hotel when present.
type Guest struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	HotelID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_guest_hotel_email_uniq,priority:1" json:"hotel_id"`
	FullName    string    `gorm:"size:255;not null" json:"full_name"`
	Email       string    `gorm:"size:150;uniqueIndex:idx_guest_hotel_email_uniq,priority:2,where:email <> ''" json:"email"`
	Phone       string    `gorm:"size:50" json:"phone"`
	Nationality string    `gorm:"size:100" json:"nationality"`
	IDNumber    string    `gorm:"size:100" json:"id_number"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeEmail is the canonical form used for storage and duplicate detection.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	g.Email = NormalizeEmail(g.Email)
	return nil
}

func (g *Guest) BeforeSave(tx *gorm.DB) error {
	g.Email = NormalizeEmail(g.Email)
	return nil
}
