package hotel

import (
	"context"
	"strings"

	"innkeep/database"
	"innkeep/models"
	"innkeep/utils"

	"go.uber.org/zap"
)

// GetHotel returns 404 when the hotel does not exist and 403 when it belongs to someone else.
func (s *DefaultHotelService) GetHotel(ctx context.Context, ownerID, hotelID string) (*models.Hotel, error) {
	if ownerID == "" {
		return nil, utils.NewUnauthorizedError("missing caller identity")
	}
	h, err := s.Repo.GetByID(ctx, hotelID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("hotel not found")
		}
		return nil, utils.NewUpstreamError("failed to load hotel", err)
	}
	if h.OwnerID != ownerID {
		utils.GetLogger().Warn("Hotel access denied",
			zap.String("hotelID", hotelID), zap.String("callerID", ownerID))
		return nil, utils.NewForbiddenError("you do not have access to this hotel")
	}
	return h, nil
}

func (s *DefaultHotelService) ListHotels(ctx context.Context, ownerID string) ([]models.Hotel, error) {
	hotels, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list hotels", err)
	}
	return hotels, nil
}

func (s *DefaultHotelService) CreateHotel(ctx context.Context, ownerID string, input models.HotelInput) (*models.Hotel, error) {
	h := &models.Hotel{OwnerID: ownerID}
	s.apply(h, input)
	if err := s.Repo.Create(ctx, h); err != nil {
		return nil, utils.NewUpstreamError("failed to create hotel", err)
	}
	utils.GetLogger().Info("Hotel created", zap.String("hotelID", h.ID), zap.String("ownerID", ownerID))
	return h, nil
}

func (s *DefaultHotelService) UpdateHotel(ctx context.Context, ownerID, hotelID string, input models.HotelInput) (*models.Hotel, error) {
	h, err := s.GetHotel(ctx, ownerID, hotelID)
	if err != nil {
		return nil, err
	}
	s.apply(h, input)
	if err := s.Repo.Update(ctx, h); err != nil {
		return nil, utils.NewUpstreamError("failed to update hotel", err)
	}
	return h, nil
}

func (s *DefaultHotelService) DeleteHotel(ctx context.Context, ownerID, hotelID string) error {
	if _, err := s.GetHotel(ctx, ownerID, hotelID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, hotelID); err != nil {
		if database.IsNotFound(err) {
			return utils.NewNotFoundError("hotel not found")
		}
		return utils.NewUpstreamError("failed to delete hotel", err)
	}
	utils.GetLogger().Info("Hotel deleted", zap.String("hotelID", hotelID), zap.String("ownerID", ownerID))
	return nil
}

func (s *DefaultHotelService) apply(h *models.Hotel, input models.HotelInput) {
	h.Name = strings.TrimSpace(input.Name)
	h.Address = utils.SanitizeText(input.Address)
	h.Phone = strings.TrimSpace(input.Phone)
	h.Email = strings.ToLower(strings.TrimSpace(input.Email))
	h.Timezone = strings.TrimSpace(input.Timezone)
	switch {
	case input.Currency != "":
		h.Currency = strings.ToLower(input.Currency)
	case h.Currency == "":
		h.Currency = s.DefaultCurrency
	}
	if h.Currency == "" {
		h.Currency = "usd"
	}
}
