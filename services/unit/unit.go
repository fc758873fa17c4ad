package unit

import (
	"context"
	"strings"

	"innkeep/database"
	unitRepo "innkeep/database/repository/unit"
	"innkeep/models"
	"innkeep/services/hotel"
	"innkeep/utils"

	"go.uber.org/zap"
)

type UnitService interface {
	ListUnits(ctx context.Context, ownerID, hotelID string, filter unitRepo.UnitFilter) ([]models.Unit, error)
	GetUnit(ctx context.Context, ownerID, hotelID, unitID string) (*models.Unit, error)
	CreateUnit(ctx context.Context, ownerID, hotelID string, input models.UnitInput) (*models.Unit, error)
	UpdateUnit(ctx context.Context, ownerID, hotelID, unitID string, input models.UnitInput) (*models.Unit, error)
	DeleteUnit(ctx context.Context, ownerID, hotelID, unitID string) error
}

// DefaultUnitService is the production implementation.
type DefaultUnitService struct {
	Hotels hotel.Resolver
	Repo   unitRepo.UnitRepository
}

func (s *DefaultUnitService) ListUnits(ctx context.Context, ownerID, hotelID string, filter unitRepo.UnitFilter) ([]models.Unit, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.NewValidationErrorf("unknown unit status %q", filter.Status)
	}
	units, err := s.Repo.List(ctx, hotelID, filter)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list units", err)
	}
	return units, nil
}

func (s *DefaultUnitService) GetUnit(ctx context.Context, ownerID, hotelID, unitID string) (*models.Unit, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	return s.load(ctx, hotelID, unitID)
}

func (s *DefaultUnitService) CreateUnit(ctx context.Context, ownerID, hotelID string, input models.UnitInput) (*models.Unit, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	u := &models.Unit{HotelID: hotelID}
	if err := apply(u, input); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, utils.NewUpstreamError("failed to create unit", err)
	}
	utils.GetLogger().Info("Unit created", zap.String("hotelID", hotelID), zap.String("unitID", u.ID))
	return u, nil
}

func (s *DefaultUnitService) UpdateUnit(ctx context.Context, ownerID, hotelID, unitID string, input models.UnitInput) (*models.Unit, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	u, err := s.load(ctx, hotelID, unitID)
	if err != nil {
		return nil, err
	}
	if err := apply(u, input); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, utils.NewUpstreamError("failed to update unit", err)
	}
	return u, nil
}

// DeleteUnit refuses to remove a unit that still has booking history.
func (s *DefaultUnitService) DeleteUnit(ctx context.Context, ownerID, hotelID, unitID string) error {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return err
	}
	if _, err := s.load(ctx, hotelID, unitID); err != nil {
		return err
	}
	booked, err := s.Repo.HasBookings(ctx, unitID)
	if err != nil {
		return utils.NewUpstreamError("failed to check unit bookings", err)
	}
	if booked {
		return utils.NewConflictError("unit has bookings; set it out_of_service instead")
	}
	if err := s.Repo.Delete(ctx, hotelID, unitID); err != nil {
		if database.IsNotFound(err) {
			return utils.NewNotFoundError("unit not found")
		}
		return utils.NewUpstreamError("failed to delete unit", err)
	}
	return nil
}

func (s *DefaultUnitService) load(ctx context.Context, hotelID, unitID string) (*models.Unit, error) {
	u, err := s.Repo.GetByID(ctx, hotelID, unitID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("unit not found")
		}
		return nil, utils.NewUpstreamError("failed to load unit", err)
	}
	return u, nil
}

func apply(u *models.Unit, input models.UnitInput) error {
	if input.NightlyRate.IsNegative() {
		return utils.NewValidationError("nightly_rate must not be negative")
	}
	if input.Status != "" && !input.Status.Valid() {
		return utils.NewValidationErrorf("unknown unit status %q", input.Status)
	}
	u.Name = strings.TrimSpace(input.Name)
	if u.Name == "" {
		return utils.NewValidationError("name is required")
	}
	u.Type = strings.TrimSpace(input.Type)
	u.Floor = strings.TrimSpace(input.Floor)
	u.Capacity = input.Capacity
	if u.Capacity == 0 {
		u.Capacity = 1
	}
	u.NightlyRate = input.NightlyRate.Round(2)
	switch {
	case input.Status != "":
		u.Status = input.Status
	case u.Status == "":
		u.Status = models.UnitAvailable
	}
	u.Notes = utils.SanitizeText(input.Notes)
	return nil
}
