package unitRepo

import (
	"context"

	"innkeep/models"
)

// UnitFilter narrows a unit listing. Empty fields are ignored.
type UnitFilter struct {
	Status models.UnitStatus
	Type   string
}

// UnitRepository defines methods for unit data access. Every lookup is scoped to a hotel.
type UnitRepository interface {
	List(ctx context.Context, hotelID string, filter UnitFilter) ([]models.Unit, error)
	GetByID(ctx context.Context, hotelID, id string) (*models.Unit, error)
	Create(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, hotelID, id string) error
	// HasBookings reports whether any booking references the unit.
	HasBookings(ctx context.Context, id string) (bool, error)
}
