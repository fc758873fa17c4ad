package models

import (
	"time"

	"gorm.io/gorm"
)

// Hotel is the tenant. Every other record hangs off a hotel and is only visible to its owner.
type Hotel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID   string    `gorm:"type:varchar(64);not null;index" json:"owner_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Email     string    `gorm:"size:150" json:"email"`
	Currency  string    `gorm:"size:3;not null;default:usd" json:"currency"`
	Timezone  string    `gorm:"size:64" json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Hotel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
