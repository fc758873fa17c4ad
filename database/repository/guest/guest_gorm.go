package guestRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"innkeep/database"
	"innkeep/models"

	"gorm.io/gorm"
)

// GormGuestRepo implements GuestRepository using GORM.
type GormGuestRepo struct {
	db *gorm.DB
}

func NewGormGuestRepo(db *gorm.DB) GuestRepository {
	return &GormGuestRepo{db: db}
}

func (r *GormGuestRepo) List(ctx context.Context, hotelID, search string) ([]models.Guest, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if s := strings.ToLower(strings.TrimSpace(search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	var guests []models.Guest
	if err := q.Order("full_name ASC").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to list guests of hotel %s: %w", hotelID, err)
	}
	return guests, nil
}

func (r *GormGuestRepo) GetByID(ctx context.Context, hotelID, id string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).First(&guest, "id = ? AND hotel_id = ?", id, hotelID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest %s: %w", id, database.NotFound(err))
	}
	return &guest, nil
}

func (r *GormGuestRepo) GetByEmail(ctx context.Context, hotelID, email string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND email = ?", hotelID, models.NormalizeEmail(email)).
		Order("created_at ASC").
		First(&guest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch guest with email %s: %w", email, err)
	}
	return &guest, nil
}

func (r *GormGuestRepo) Create(ctx context.Context, guest *models.Guest) error {
	if err := r.db.WithContext(ctx).Create(guest).Error; err != nil {
		return fmt.Errorf("failed to create guest: %w", err)
	}
	return nil
}

func (r *GormGuestRepo) Update(ctx context.Context, guest *models.Guest) error {
	if err := r.db.WithContext(ctx).Save(guest).Error; err != nil {
		return fmt.Errorf("failed to update guest %s: %w", guest.ID, err)
	}
	return nil
}

func (r *GormGuestRepo) Delete(ctx context.Context, hotelID, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Guest{}, "id = ? AND hotel_id = ?", id, hotelID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete guest %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("guest %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *GormGuestRepo) HasBookings(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("guest_id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count bookings of guest %s: %w", id, err)
	}
	return count > 0, nil
}
