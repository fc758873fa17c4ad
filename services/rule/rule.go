package rule

import (
	"context"

	"innkeep/database"
	ruleRepo "innkeep/database/repository/rule"
	"innkeep/models"
	"innkeep/services/hotel"
	"innkeep/utils"
)

type RuleService interface {
	ListRules(ctx context.Context, ownerID, hotelID string, activeOnly bool) ([]models.BookingRule, error)
	GetRule(ctx context.Context, ownerID, hotelID, ruleID string) (*models.BookingRule, error)
	CreateRule(ctx context.Context, ownerID, hotelID string, input models.BookingRuleInput) (*models.BookingRule, error)
	UpdateRule(ctx context.Context, ownerID, hotelID, ruleID string, input models.BookingRuleInput) (*models.BookingRule, error)
	DeleteRule(ctx context.Context, ownerID, hotelID, ruleID string) error
}

// DefaultRuleService is the production implementation.
type DefaultRuleService struct {
	Hotels hotel.Resolver
	Repo   ruleRepo.RuleRepository
}

func (s *DefaultRuleService) ListRules(ctx context.Context, ownerID, hotelID string, activeOnly bool) ([]models.BookingRule, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	rules, err := s.Repo.List(ctx, hotelID, activeOnly)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list rules", err)
	}
	return rules, nil
}

func (s *DefaultRuleService) GetRule(ctx context.Context, ownerID, hotelID, ruleID string) (*models.BookingRule, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	return s.load(ctx, hotelID, ruleID)
}

func (s *DefaultRuleService) CreateRule(ctx context.Context, ownerID, hotelID string, input models.BookingRuleInput) (*models.BookingRule, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	r := &models.BookingRule{HotelID: hotelID, Active: true}
	if err := apply(r, input); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		return nil, utils.NewUpstreamError("failed to create rule", err)
	}
	return r, nil
}

func (s *DefaultRuleService) UpdateRule(ctx context.Context, ownerID, hotelID, ruleID string, input models.BookingRuleInput) (*models.BookingRule, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	r, err := s.load(ctx, hotelID, ruleID)
	if err != nil {
		return nil, err
	}
	if err := apply(r, input); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, r); err != nil {
		return nil, utils.NewUpstreamError("failed to update rule", err)
	}
	return r, nil
}

func (s *DefaultRuleService) DeleteRule(ctx context.Context, ownerID, hotelID, ruleID string) error {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, hotelID, ruleID); err != nil {
		if database.IsNotFound(err) {
			return utils.NewNotFoundError("rule not found")
		}
		return utils.NewUpstreamError("failed to delete rule", err)
	}
	return nil
}

func (s *DefaultRuleService) load(ctx context.Context, hotelID, ruleID string) (*models.BookingRule, error) {
	r, err := s.Repo.GetByID(ctx, hotelID, ruleID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("rule not found")
		}
		return nil, utils.NewUpstreamError("failed to load rule", err)
	}
	return r, nil
}

func apply(r *models.BookingRule, input models.BookingRuleInput) error {
	r.Title = utils.SanitizeText(input.Title)
	if r.Title == "" {
		return utils.NewValidationError("title is required")
	}
	r.Body = utils.SanitizeRichText(input.Body)
	r.Position = input.Position
	if input.Active != nil {
		r.Active = *input.Active
	}
	return nil
}
