package hotel

import (
	"context"

	hotelRepo "innkeep/database/repository/hotel"
	"innkeep/models"
)

// Resolver loads a hotel on behalf of a caller and enforces ownership. Every hotel-scoped
// service depends on it.
type Resolver interface {
	GetHotel(ctx context.Context, ownerID, hotelID string) (*models.Hotel, error)
}

type HotelService interface {
	Resolver
	ListHotels(ctx context.Context, ownerID string) ([]models.Hotel, error)
	CreateHotel(ctx context.Context, ownerID string, input models.HotelInput) (*models.Hotel, error)
	UpdateHotel(ctx context.Context, ownerID, hotelID string, input models.HotelInput) (*models.Hotel, error)
	DeleteHotel(ctx context.Context, ownerID, hotelID string) error
}

// DefaultHotelService is the production implementation.
type DefaultHotelService struct {
	Repo            hotelRepo.HotelRepository
	DefaultCurrency string
}
