package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type BookingSource string

const (
	SourceDirect     BookingSource = "direct"
	SourceWalkIn     BookingSource = "walk_in"
	SourcePhone      BookingSource = "phone"
	SourceEmail      BookingSource = "email"
	SourceWebsite    BookingSource = "website"
	SourceBookingCom BookingSource = "booking_com"
	SourceAirbnb     BookingSource = "airbnb"
	SourceExpedia    BookingSource = "expedia"
	SourceOther      BookingSource = "other"
)

var BookingSources = []BookingSource{
	SourceDirect, SourceWalkIn, SourcePhone, SourceEmail, SourceWebsite,
	SourceBookingCom, SourceAirbnb, SourceExpedia, SourceOther,
}

func (s BookingSource) Valid() bool {
	for _, v := range BookingSources {
		if s == v {
			return true
		}
	}
	return false
}

// Booking reserves a unit for a guest between two calendar dates, both inclusive for the
// purpose of overlap detection.
type Booking struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	HotelID     string          `gorm:"type:varchar(36);not null;index" json:"hotel_id"`
	UnitID      string          `gorm:"type:varchar(36);not null;index:idx_booking_unit_dates,priority:1" json:"unit_id"`
	GuestID     string          `gorm:"type:varchar(36);not null;index" json:"guest_id"`
	CheckIn     time.Time       `gorm:"type:date;not null;index:idx_booking_unit_dates,priority:2" json:"check_in"`
	CheckOut    time.Time       `gorm:"type:date;not null;index:idx_booking_unit_dates,priority:3" json:"check_out"`
	Adults      int             `gorm:"not null;default:1" json:"adults"`
	Children    int             `gorm:"not null;default:0" json:"children"`
	Status      BookingStatus   `gorm:"size:32;not null;index" json:"status"`
	Source      BookingSource   `gorm:"size:32;not null" json:"source"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	PaidAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"paid_amount"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Unit  *Unit  `gorm:"foreignKey:UnitID;constraint:OnDelete:RESTRICT" json:"unit,omitempty"`
	Guest *Guest `gorm:"foreignKey:GuestID;constraint:OnDelete:RESTRICT" json:"guest,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// Nights is the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return int(DateOnly(b.CheckOut).Sub(DateOnly(b.CheckIn)).Hours() / 24)
}

// Outstanding is what is still owed on the booking.
func (b *Booking) Outstanding() decimal.Decimal {
	out := b.TotalAmount.Sub(b.PaidAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}
