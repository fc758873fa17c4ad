package booking

import (
	"context"
	"errors"
	"time"

	"innkeep/database"
	bookingRepo "innkeep/database/repository/booking"
	"innkeep/models"
	"innkeep/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *DefaultBookingService) ListBookings(ctx context.Context, ownerID, hotelID string, filter ListFilter) ([]models.Booking, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	f := bookingRepo.BookingFilter{
		Status:  models.BookingStatus(filter.Status),
		UnitID:  filter.UnitID,
		GuestID: filter.GuestID,
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, utils.NewValidationErrorf("unknown booking status %q", filter.Status)
	}
	if filter.From != "" {
		from, err := parseDate("from", filter.From)
		if err != nil {
			return nil, err
		}
		f.From = &from
	}
	if filter.To != "" {
		to, err := parseDate("to", filter.To)
		if err != nil {
			return nil, err
		}
		f.To = &to
	}
	bookings, err := s.Bookings.List(ctx, hotelID, f)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list bookings", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, ownerID, hotelID, bookingID string) (*models.Booking, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	return s.load(ctx, hotelID, bookingID)
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, ownerID, hotelID string, input models.BookingInput) (*models.Booking, error) {
	h, err := s.Hotels.GetHotel(ctx, ownerID, hotelID)
	if err != nil {
		return nil, err
	}
	st, err := s.resolveStay(ctx, hotelID, input, true)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		HotelID:  hotelID,
		Status:   models.BookingConfirmed,
		Source:   models.SourceDirect,
		Currency: h.Currency,
	}
	fill(b, st, input)
	if b.Status == models.BookingCancelled {
		return nil, utils.NewValidationError("a booking cannot be created cancelled")
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, bookingError(err)
	}
	utils.GetLogger().Info("Booking created",
		zap.String("hotelID", hotelID),
		zap.String("bookingID", b.ID),
		zap.String("unitID", b.UnitID),
		zap.Time("checkIn", b.CheckIn),
		zap.Time("checkOut", b.CheckOut))
	b.Unit, b.Guest = st.unit, st.guest
	return b, nil
}

func (s *DefaultBookingService) UpdateBooking(ctx context.Context, ownerID, hotelID, bookingID string, input models.BookingInput) (*models.Booking, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	b, err := s.load(ctx, hotelID, bookingID)
	if err != nil {
		return nil, err
	}
	// Moving a booking onto a different unit needs that unit to be bookable.
	st, err := s.resolveStay(ctx, hotelID, input, input.UnitID != b.UnitID)
	if err != nil {
		return nil, err
	}
	fill(b, st, input)
	if b.Status == models.BookingCancelled && b.CancelledAt == nil {
		now := time.Now().UTC()
		b.CancelledAt = &now
	}
	b.Unit, b.Guest = nil, nil
	if err := s.Bookings.Update(ctx, b); err != nil {
		return nil, bookingError(err)
	}
	b.Unit, b.Guest = st.unit, st.guest
	return b, nil
}

func (s *DefaultBookingService) CancelBooking(ctx context.Context, ownerID, hotelID, bookingID string) (*models.Booking, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	b, err := s.Bookings.Cancel(ctx, hotelID, bookingID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("booking not found")
		}
		return nil, utils.NewUpstreamError("failed to cancel booking", err)
	}
	utils.GetLogger().Info("Booking cancelled", zap.String("hotelID", hotelID), zap.String("bookingID", bookingID))
	return b, nil
}

// DeleteBooking is refused once money has been collected; such bookings should be cancelled.
func (s *DefaultBookingService) DeleteBooking(ctx context.Context, ownerID, hotelID, bookingID string) error {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return err
	}
	if _, err := s.load(ctx, hotelID, bookingID); err != nil {
		return err
	}
	paid, err := s.Bookings.HasCompletedPayments(ctx, bookingID)
	if err != nil {
		return utils.NewUpstreamError("failed to check booking payments", err)
	}
	if paid {
		return utils.NewConflictError("booking has completed payments; cancel it instead")
	}
	if err := s.Bookings.Delete(ctx, hotelID, bookingID); err != nil {
		if database.IsNotFound(err) {
			return utils.NewNotFoundError("booking not found")
		}
		return utils.NewUpstreamError("failed to delete booking", err)
	}
	return nil
}

// Summary defaults to the current calendar month.
func (s *DefaultBookingService) Summary(ctx context.Context, ownerID, hotelID, from, to string) (*bookingRepo.Summary, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	var err error
	if from != "" {
		if start, err = parseDate("from", from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if end, err = parseDate("to", to); err != nil {
			return nil, err
		}
	}
	if end.Before(start) {
		return nil, utils.NewValidationError("to must not be before from")
	}
	summary, err := s.Bookings.Summary(ctx, hotelID, start, end)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to build summary", err)
	}
	return summary, nil
}

func (s *DefaultBookingService) load(ctx context.Context, hotelID, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, hotelID, bookingID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("booking not found")
		}
		return nil, utils.NewUpstreamError("failed to load booking", err)
	}
	return b, nil
}

func fill(b *models.Booking, st *stay, input models.BookingInput) {
	b.UnitID = st.unit.ID
	b.GuestID = st.guest.ID
	b.CheckIn = st.checkIn
	b.CheckOut = st.checkOut
	b.Adults = input.Adults
	if b.Adults == 0 {
		b.Adults = 1
	}
	b.Children = input.Children
	if input.Status != "" {
		b.Status = input.Status
	}
	if input.Source != "" {
		b.Source = input.Source
	}
	if input.TotalAmount != nil {
		b.TotalAmount = input.TotalAmount.Round(2)
	} else {
		b.TotalAmount = st.unit.NightlyRate.Mul(decimal.NewFromInt(int64(b.Nights()))).Round(2)
	}
	b.Notes = utils.SanitizeText(input.Notes)
}

// bookingError maps repository failures. Overlaps are validation failures and name the
// conflicting booking.
func bookingError(err error) error {
	var overlap *bookingRepo.OverlapError
	if errors.As(err, &overlap) {
		utils.BookingConflictsTotal.Inc()
		return &utils.AppError{
			Kind:    utils.KindValidation,
			Message: "unit is not available for the selected dates",
			Details: overlap.Error(),
		}
	}
	if database.IsNotFound(err) {
		return utils.NewValidationError("unit does not belong to this hotel")
	}
	return utils.NewUpstreamError("failed to save booking", err)
}
