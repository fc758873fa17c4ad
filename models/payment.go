package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// IsTerminal reports whether the status can no longer change.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheckout     PaymentMethod = "checkout"
)

// Payment is the local record of money received (or attempted) against a booking. Gateway
// payments start pending and are settled by the gateway response or a webhook.
type Payment struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	HotelID       string          `gorm:"type:varchar(36);not null;index" json:"hotel_id"`
	BookingID     string          `gorm:"type:varchar(36);not null;index" json:"booking_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	Method        PaymentMethod   `gorm:"size:32;not null" json:"method"`
	Status        PaymentStatus   `gorm:"size:32;not null;index" json:"status"`
	GatewayRef    string          `gorm:"size:255;index" json:"gateway_ref,omitempty"`
	CheckoutURL   string          `gorm:"type:text" json:"checkout_url,omitempty"`
	FailureReason string          `gorm:"size:255" json:"failure_reason,omitempty"`
	Reference     string          `gorm:"size:255" json:"reference,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// WebhookEvent records every gateway event that has been applied, keyed by the gateway's
// event id.
type WebhookEvent struct {
	ID          string    `gorm:"type:varchar(255);primaryKey" json:"id"`
	Type        string    `gorm:"size:100;index" json:"type"`
	PaymentID   string    `gorm:"type:varchar(36);index" json:"payment_id"`
	ProcessedAt time.Time `json:"processed_at"`
}
