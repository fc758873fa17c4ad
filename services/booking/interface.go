package booking

import (
	"context"

	bookingRepo "innkeep/database/repository/booking"
	guestRepo "innkeep/database/repository/guest"
	unitRepo "innkeep/database/repository/unit"
	"innkeep/models"
	"innkeep/services/hotel"
)

// ListFilter is the caller-facing booking filter; dates are YYYY-MM-DD strings.
type ListFilter struct {
	Status  string
	UnitID  string
	GuestID string
	From    string
	To      string
}

type BookingService interface {
	ListBookings(ctx context.Context, ownerID, hotelID string, filter ListFilter) ([]models.Booking, error)
	GetBooking(ctx context.Context, ownerID, hotelID, bookingID string) (*models.Booking, error)
	CreateBooking(ctx context.Context, ownerID, hotelID string, input models.BookingInput) (*models.Booking, error)
	UpdateBooking(ctx context.Context, ownerID, hotelID, bookingID string, input models.BookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, ownerID, hotelID, bookingID string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, ownerID, hotelID, bookingID string) error
	Summary(ctx context.Context, ownerID, hotelID, from, to string) (*bookingRepo.Summary, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Hotels   hotel.Resolver
	Bookings bookingRepo.BookingRepository
	Units    unitRepo.UnitRepository
	Guests   guestRepo.GuestRepository
}
