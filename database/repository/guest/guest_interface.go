package guestRepo

import (
	"context"

	"innkeep/models"
)

// GuestRepository defines methods for guest data access. Every lookup is scoped to a hotel.
type GuestRepository interface {
	// List returns the hotel's guests; search matches name, email or phone.
	List(ctx context.Context, hotelID, search string) ([]models.Guest, error)
	GetByID(ctx context.Context, hotelID, id string) (*models.Guest, error)
	// GetByEmail returns nil, nil when no guest of the hotel has that email.
	GetByEmail(ctx context.Context, hotelID, email string) (*models.Guest, error)
	Create(ctx context.Context, guest *models.Guest) error
	Update(ctx context.Context, guest *models.Guest) error
	Delete(ctx context.Context, hotelID, id string) error
	HasBookings(ctx context.Context, id string) (bool, error)
}
