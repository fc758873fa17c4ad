package unitRepo

import (
	"context"
	"fmt"

	"innkeep/database"
	"innkeep/models"

	"gorm.io/gorm"
)

// GormUnitRepo implements UnitRepository using GORM.
type GormUnitRepo struct {
	db *gorm.DB
}

func NewGormUnitRepo(db *gorm.DB) UnitRepository {
	return &GormUnitRepo{db: db}
}

func (r *GormUnitRepo) List(ctx context.Context, hotelID string, filter UnitFilter) ([]models.Unit, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	var units []models.Unit
	if err := q.Order("name ASC").Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to list units of hotel %s: %w", hotelID, err)
	}
	return units, nil
}

func (r *GormUnitRepo) GetByID(ctx context.Context, hotelID, id string) (*models.Unit, error) {
	var unit models.Unit
	err := r.db.WithContext(ctx).First(&unit, "id = ? AND hotel_id = ?", id, hotelID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit %s: %w", id, database.NotFound(err))
	}
	return &unit, nil
}

func (r *GormUnitRepo) Create(ctx context.Context, unit *models.Unit) error {
	if err := r.db.WithContext(ctx).Create(unit).Error; err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

func (r *GormUnitRepo) Update(ctx context.Context, unit *models.Unit) error {
	if err := r.db.WithContext(ctx).Save(unit).Error; err != nil {
		return fmt.Errorf("failed to update unit %s: %w", unit.ID, err)
	}
	return nil
}

func (r *GormUnitRepo) Delete(ctx context.Context, hotelID, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Unit{}, "id = ? AND hotel_id = ?", id, hotelID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete unit %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("unit %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *GormUnitRepo) HasBookings(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("unit_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count bookings of unit %s: %w", id, err)
	}
	return count > 0, nil
}
