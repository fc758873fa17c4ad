package models

import (
	"github.com/shopspring/decimal"
)

type HotelInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Address  string `json:"address"`
	Phone    string `json:"phone" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Currency string `json:"currency" binding:"omitempty,currency_code"`
	Timezone string `json:"timezone" binding:"max=64"`
}

type UnitInput struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Type        string          `json:"type" binding:"max=50"`
	Floor       string          `json:"floor" binding:"max=10"`
	Capacity    int             `json:"capacity" binding:"gte=0"`
	NightlyRate decimal.Decimal `json:"nightly_rate" binding:"gte=0"`
	Status      UnitStatus      `json:"status" binding:"omitempty,unit_status"`
	Notes       string          `json:"notes"`
}

type GuestInput struct {
	FullName    string `json:"full_name" binding:"required,max=255"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=50"`
	Nationality string `json:"nationality" binding:"max=100"`
	IDNumber    string `json:"id_number" binding:"max=100"`
	Notes       string `json:"notes"`
}

// BookingInput carries dates as YYYY-MM-DD strings. A nil TotalAmount means nights x nightly rate.
type BookingInput struct {
	UnitID      string           `json:"unit_id" binding:"required"`
	GuestID     string           `json:"guest_id" binding:"required"`
	CheckIn     string           `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut    string           `json:"check_out" binding:"required,datetime=2006-01-02"`
	Adults      int              `json:"adults" binding:"gte=0"`
	Children    int              `json:"children" binding:"gte=0"`
	Status      BookingStatus    `json:"status" binding:"omitempty,booking_status"`
	Source      BookingSource    `json:"source" binding:"omitempty,booking_source"`
	TotalAmount *decimal.Decimal `json:"total_amount" binding:"omitempty,gte=0"`
	Notes       string           `json:"notes"`
}

type BookingRuleInput struct {
	Title    string `json:"title" binding:"required,max=255"`
	Body     string `json:"body"`
	Active   *bool  `json:"active"`
	Position int    `json:"position"`
}

// ManualPaymentInput records money taken outside the gateway.
type ManualPaymentInput struct {
	Amount    decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Method    PaymentMethod   `json:"method" binding:"required,manual_method"`
	Reference string          `json:"reference" binding:"max=255"`
}

// CheckoutInput requests a hosted checkout session. A nil Amount charges the outstanding balance.
type CheckoutInput struct {
	HotelID     string            `json:"hotel_id" binding:"required"`
	BookingID   string            `json:"booking_id" binding:"required"`
	Amount      *decimal.Decimal  `json:"amount" binding:"omitempty,gt=0"`
	Currency    string            `json:"currency" binding:"omitempty,currency_code"`
	Description string            `json:"description" binding:"max=255"`
	SuccessURL  string            `json:"success_url" binding:"required,url"`
	CancelURL   string            `json:"cancel_url" binding:"required,url"`
	Metadata    map[string]string `json:"metadata"`
}

type CardInput struct {
	Number   string `json:"number" binding:"required,credit_card"`
	ExpMonth int    `json:"exp_month" binding:"required,min=1,max=12"`
	ExpYear  int    `json:"exp_year" binding:"required,gte=2000,lte=2100"`
	CVC      string `json:"cvc" binding:"required,numeric,min=3,max=4"`
	Name     string `json:"name" binding:"max=255"`
}

// DirectPaymentInput submits card details for an immediate charge.
type DirectPaymentInput struct {
	HotelID   string            `json:"hotel_id" binding:"required"`
	BookingID string            `json:"booking_id" binding:"required"`
	Amount    *decimal.Decimal  `json:"amount" binding:"omitempty,gt=0"`
	Currency  string            `json:"currency" binding:"omitempty,currency_code"`
	Card      CardInput         `json:"card" binding:"required"`
	Metadata  map[string]string `json:"metadata"`
}
