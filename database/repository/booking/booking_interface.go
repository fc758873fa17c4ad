package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"innkeep/models"

	"github.com/shopspring/decimal"
)

// BookingFilter narrows a booking listing. From and To select bookings whose stay intersects
// the inclusive range.
type BookingFilter struct {
	Status  models.BookingStatus
	UnitID  string
	GuestID string
	From    *time.Time
	To      *time.Time
}

// Summary aggregates the bookings of a hotel whose check-in falls in a date range.
type Summary struct {
	From        time.Time                      `json:"from"`
	To          time.Time                      `json:"to"`
	Bookings    int64                          `json:"bookings"`
	ByStatus    map[models.BookingStatus]int64 `json:"by_status"`
	Nights      int                            `json:"nights"`
	Revenue     decimal.Decimal                `json:"revenue"`
	Collected   decimal.Decimal                `json:"collected"`
	Outstanding decimal.Decimal                `json:"outstanding"`
}

// OverlapError is returned when a unit already has a non-cancelled booking intersecting the
// requested dates.
type OverlapError struct {
	BookingID string
	CheckIn   time.Time
	CheckOut  time.Time
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("unit already booked from %s to %s by booking %s",
		e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"), e.BookingID)
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	List(ctx context.Context, hotelID string, filter BookingFilter) ([]models.Booking, error)
	GetByID(ctx context.Context, hotelID, id string) (*models.Booking, error)
	// Create inserts the booking if the unit is free, all in one transaction.
	Create(ctx context.Context, booking *models.Booking) error
	// Update saves the booking, re-running the overlap check unless it is cancelled.
	Update(ctx context.Context, booking *models.Booking) error
	// Cancel marks the booking cancelled; it stops blocking its dates.
	Cancel(ctx context.Context, hotelID, id string) (*models.Booking, error)
	// Delete removes a booking with its invoice and any unsettled payments.
	Delete(ctx context.Context, hotelID, id string) error
	// FindOverlapping lists non-cancelled bookings of the unit intersecting [checkIn, checkOut].
	FindOverlapping(ctx context.Context, unitID string, checkIn, checkOut time.Time, excludeID string) ([]models.Booking, error)
	// HasCompletedPayments reports whether money has been collected for the booking.
	HasCompletedPayments(ctx context.Context, id string) (bool, error)
	Summary(ctx context.Context, hotelID string, from, to time.Time) (*Summary, error)
}
