package ruleRepo

import (
	"context"
	"fmt"

	"innkeep/database"
	"innkeep/models"

	"gorm.io/gorm"
)

// RuleRepository defines methods for booking-rule data access.
type RuleRepository interface {
	List(ctx context.Context, hotelID string, activeOnly bool) ([]models.BookingRule, error)
	GetByID(ctx context.Context, hotelID, id string) (*models.BookingRule, error)
	Create(ctx context.Context, rule *models.BookingRule) error
	Update(ctx context.Context, rule *models.BookingRule) error
	Delete(ctx context.Context, hotelID, id string) error
}

// GormRuleRepo implements RuleRepository using GORM.
type GormRuleRepo struct {
	db *gorm.DB
}

func NewGormRuleRepo(db *gorm.DB) RuleRepository {
	return &GormRuleRepo{db: db}
}

func (r *GormRuleRepo) List(ctx context.Context, hotelID string, activeOnly bool) ([]models.BookingRule, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var rules []models.BookingRule
	if err := q.Order("position ASC, created_at ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to list rules of hotel %s: %w", hotelID, err)
	}
	return rules, nil
}

func (r *GormRuleRepo) GetByID(ctx context.Context, hotelID, id string) (*models.BookingRule, error) {
	var rule models.BookingRule
	err := r.db.WithContext(ctx).First(&rule, "id = ? AND hotel_id = ?", id, hotelID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rule %s: %w", id, database.NotFound(err))
	}
	return &rule, nil
}

func (r *GormRuleRepo) Create(ctx context.Context, rule *models.BookingRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

func (r *GormRuleRepo) Update(ctx context.Context, rule *models.BookingRule) error {
	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("failed to update rule %s: %w", rule.ID, err)
	}
	return nil
}

func (r *GormRuleRepo) Delete(ctx context.Context, hotelID, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.BookingRule{}, "id = ? AND hotel_id = ?", id, hotelID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("rule %s: %w", id, database.ErrNotFound)
	}
	return nil
}
