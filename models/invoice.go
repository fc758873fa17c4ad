package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

// Invoice is the billing document for a booking. There is at most one per booking.
type Invoice struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	HotelID   string          `gorm:"type:varchar(36);not null;index" json:"hotel_id"`
	BookingID string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"booking_id"`
	Number    string          `gorm:"size:64;not null;uniqueIndex" json:"number"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Status    InvoiceStatus   `gorm:"size:32;not null" json:"status"`
	IssuedAt  time.Time       `json:"issued_at"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
