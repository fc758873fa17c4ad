package booking

import (
	"context"
	"time"

	"innkeep/database"
	"innkeep/models"
	"innkeep/utils"
)

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(utils.DateLayout, value)
	if err != nil {
		return time.Time{}, utils.NewValidationErrorf("%s must be a date formatted YYYY-MM-DD", field)
	}
	return models.DateOnly(t), nil
}

// stay holds the parsed, cross-checked parts of a booking request.
type stay struct {
	unit     *models.Unit
	guest    *models.Guest
	checkIn  time.Time
	checkOut time.Time
}

// resolveStay parses the dates and makes sure the unit and guest belong to the hotel.
// A unit or guest id from another hotel is a validation failure, not a 404.
func (s *DefaultBookingService) resolveStay(ctx context.Context, hotelID string, input models.BookingInput, requireBookable bool) (*stay, error) {
	checkIn, err := parseDate("check_in", input.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate("check_out", input.CheckOut)
	if err != nil {
		return nil, err
	}
	if !checkOut.After(checkIn) {
		return nil, utils.NewValidationError("check_out must be after check_in")
	}
	if input.Adults < 0 || input.Children < 0 {
		return nil, utils.NewValidationError("guest counts must not be negative")
	}
	if input.TotalAmount != nil && input.TotalAmount.IsNegative() {
		return nil, utils.NewValidationError("total_amount must not be negative")
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, utils.NewValidationErrorf("unknown booking status %q", input.Status)
	}
	if input.Source != "" && !input.Source.Valid() {
		return nil, utils.NewValidationErrorf("unknown booking source %q", input.Source)
	}

	unit, err := s.Units.GetByID(ctx, hotelID, input.UnitID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewValidationError("unit does not belong to this hotel")
		}
		return nil, utils.NewUpstreamError("failed to load unit", err)
	}
	if requireBookable && !unit.Status.Bookable() {
		return nil, utils.NewValidationErrorf("unit %s is %s and cannot be booked", unit.Name, unit.Status)
	}
	guest, err := s.Guests.GetByID(ctx, hotelID, input.GuestID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewValidationError("guest does not belong to this hotel")
		}
		return nil, utils.NewUpstreamError("failed to load guest", err)
	}
	if unit.Capacity > 0 && input.Adults+input.Children > unit.Capacity {
		return nil, utils.NewValidationErrorf("unit %s sleeps at most %d guests", unit.Name, unit.Capacity)
	}
	return &stay{unit: unit, guest: guest, checkIn: checkIn, checkOut: checkOut}, nil
}
