package hotelRepo

import (
	"context"

	"innkeep/models"
)

// HotelRepository defines methods for hotel data access.
type HotelRepository interface {
	// GetByID retrieves a hotel regardless of owner; callers check ownership.
	GetByID(ctx context.Context, id string) (*models.Hotel, error)
	// ListByOwner retrieves the hotels owned by ownerID, oldest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Hotel, error)
	// Create inserts a new hotel record.
	Create(ctx context.Context, hotel *models.Hotel) error
	// Update saves every column of an existing hotel.
	Update(ctx context.Context, hotel *models.Hotel) error
	// Delete removes the hotel and everything scoped to it.
	Delete(ctx context.Context, id string) error
}
