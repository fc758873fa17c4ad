package guest

import (
	"context"
	"strings"

	"innkeep/database"
	guestRepo "innkeep/database/repository/guest"
	"innkeep/models"
	"innkeep/services/hotel"
	"innkeep/utils"

	"go.uber.org/zap"
)

type GuestService interface {
	ListGuests(ctx context.Context, ownerID, hotelID, search string) ([]models.Guest, error)
	GetGuest(ctx context.Context, ownerID, hotelID, guestID string) (*models.Guest, error)
	// CreateGuest returns the existing guest and created=false when the email is already on file.
	CreateGuest(ctx context.Context, ownerID, hotelID string, input models.GuestInput) (g *models.Guest, created bool, err error)
	UpdateGuest(ctx context.Context, ownerID, hotelID, guestID string, input models.GuestInput) (*models.Guest, error)
	DeleteGuest(ctx context.Context, ownerID, hotelID, guestID string) error
}

// DefaultGuestService is the production implementation.
type DefaultGuestService struct {
	Hotels hotel.Resolver
	Repo   guestRepo.GuestRepository
}

func (s *DefaultGuestService) ListGuests(ctx context.Context, ownerID, hotelID, search string) ([]models.Guest, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	guests, err := s.Repo.List(ctx, hotelID, search)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list guests", err)
	}
	return guests, nil
}

func (s *DefaultGuestService) GetGuest(ctx context.Context, ownerID, hotelID, guestID string) (*models.Guest, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	return s.load(ctx, hotelID, guestID)
}

func (s *DefaultGuestService) CreateGuest(ctx context.Context, ownerID, hotelID string, input models.GuestInput) (*models.Guest, bool, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, false, err
	}
	logger := utils.GetLogger()
	if email := models.NormalizeEmail(input.Email); email != "" {
		existing, err := s.Repo.GetByEmail(ctx, hotelID, email)
		if err != nil {
			return nil, false, utils.NewUpstreamError("failed to look up guest", err)
		}
		if existing != nil {
			logger.Debug("Guest already on file", zap.String("hotelID", hotelID), zap.String("guestID", existing.ID))
			return existing, false, nil
		}
	}

	g := &models.Guest{HotelID: hotelID}
	apply(g, input)
	if g.FullName == "" {
		return nil, false, utils.NewValidationError("full_name is required")
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		if database.IsDuplicate(err) && g.Email != "" {
			// A concurrent request stored the same email first.
			existing, lerr := s.Repo.GetByEmail(ctx, hotelID, g.Email)
			if lerr == nil && existing != nil {
				logger.Debug("Guest already on file", zap.String("hotelID", hotelID), zap.String("guestID", existing.ID))
				return existing, false, nil
			}
		}
		return nil, false, utils.NewUpstreamError("failed to create guest", err)
	}
	logger.Info("Guest created", zap.String("hotelID", hotelID), zap.String("guestID", g.ID))
	return g, true, nil
}

func (s *DefaultGuestService) UpdateGuest(ctx context.Context, ownerID, hotelID, guestID string, input models.GuestInput) (*models.Guest, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	g, err := s.load(ctx, hotelID, guestID)
	if err != nil {
		return nil, err
	}
	if email := models.NormalizeEmail(input.Email); email != "" && email != g.Email {
		other, err := s.Repo.GetByEmail(ctx, hotelID, email)
		if err != nil {
			return nil, utils.NewUpstreamError("failed to look up guest", err)
		}
		if other != nil && other.ID != g.ID {
			return nil, utils.NewConflictError("another guest of this hotel already uses that email")
		}
	}
	apply(g, input)
	if g.FullName == "" {
		return nil, utils.NewValidationError("full_name is required")
	}
	if err := s.Repo.Update(ctx, g); err != nil {
		if database.IsDuplicate(err) {
			return nil, utils.NewConflictError("another guest of this hotel already uses that email")
		}
		return nil, utils.NewUpstreamError("failed to update guest", err)
	}
	return g, nil
}

func (s *DefaultGuestService) DeleteGuest(ctx context.Context, ownerID, hotelID, guestID string) error {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return err
	}
	if _, err := s.load(ctx, hotelID, guestID); err != nil {
		return err
	}
	booked, err := s.Repo.HasBookings(ctx, guestID)
	if err != nil {
		return utils.NewUpstreamError("failed to check guest bookings", err)
	}
	if booked {
		return utils.NewConflictError("guest has bookings and cannot be deleted")
	}
	if err := s.Repo.Delete(ctx, hotelID, guestID); err != nil {
		if database.IsNotFound(err) {
			return utils.NewNotFoundError("guest not found")
		}
		return utils.NewUpstreamError("failed to delete guest", err)
	}
	return nil
}

func (s *DefaultGuestService) load(ctx context.Context, hotelID, guestID string) (*models.Guest, error) {
	g, err := s.Repo.GetByID(ctx, hotelID, guestID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("guest not found")
		}
		return nil, utils.NewUpstreamError("failed to load guest", err)
	}
	return g, nil
}

func apply(g *models.Guest, input models.GuestInput) {
	g.FullName = strings.TrimSpace(input.FullName)
	g.Email = models.NormalizeEmail(input.Email)
	g.Phone = strings.TrimSpace(input.Phone)
	g.Nationality = strings.TrimSpace(input.Nationality)
	g.IDNumber = strings.TrimSpace(input.IDNumber)
	g.Notes = utils.SanitizeText(input.Notes)
}
