package hotelRepo

import (
	"context"
	"fmt"

	"innkeep/database"
	"innkeep/models"

	"gorm.io/gorm"
)

// GormHotelRepo implements HotelRepository using GORM.
type GormHotelRepo struct {
	db *gorm.DB
}

func NewGormHotelRepo(db *gorm.DB) HotelRepository {
	return &GormHotelRepo{db: db}
}

func (r *GormHotelRepo) GetByID(ctx context.Context, id string) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := r.db.WithContext(ctx).First(&hotel, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch hotel %s: %w", id, database.NotFound(err))
	}
	return &hotel, nil
}

func (r *GormHotelRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Hotel, error) {
	var hotels []models.Hotel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&hotels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels for owner %s: %w", ownerID, err)
	}
	return hotels, nil
}

func (r *GormHotelRepo) Create(ctx context.Context, hotel *models.Hotel) error {
	if err := r.db.WithContext(ctx).Create(hotel).Error; err != nil {
		return fmt.Errorf("failed to create hotel: %w", err)
	}
	return nil
}

func (r *GormHotelRepo) Update(ctx context.Context, hotel *models.Hotel) error {
	result := r.db.WithContext(ctx).Save(hotel)
	if result.Error != nil {
		return fmt.Errorf("failed to update hotel %s: %w", hotel.ID, result.Error)
	}
	return nil
}

// Delete removes the hotel together with its scoped rows in one transaction. Children go first
// so foreign keys from bookings to units and guests are satisfied.
func (r *GormHotelRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := []any{
			&models.Invoice{},
			&models.Payment{},
			&models.Booking{},
			&models.Unit{},
			&models.Guest{},
			&models.BookingRule{},
		}
		for _, m := range scoped {
			if err := tx.Where("hotel_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete rows of hotel %s: %w", id, err)
			}
		}
		result := tx.Delete(&models.Hotel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete hotel %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("hotel %s: %w", id, database.ErrNotFound)
		}
		return nil
	})
}
