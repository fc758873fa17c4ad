package invoice

import (
	"context"

	"innkeep/database"
	bookingRepo "innkeep/database/repository/booking"
	invoiceRepo "innkeep/database/repository/invoice"
	"innkeep/models"
	"innkeep/services/hotel"
	"innkeep/utils"

	"go.uber.org/zap"
)

type InvoiceService interface {
	ListInvoices(ctx context.Context, ownerID, hotelID, status string) ([]models.Invoice, error)
	// IssueInvoice creates the booking's invoice, or returns the existing one with created=false.
	IssueInvoice(ctx context.Context, ownerID, hotelID, bookingID string) (inv *models.Invoice, created bool, err error)
}

// DefaultInvoiceService is the production implementation.
type DefaultInvoiceService struct {
	Hotels   hotel.Resolver
	Bookings bookingRepo.BookingRepository
	Repo     invoiceRepo.InvoiceRepository
}

func (s *DefaultInvoiceService) ListInvoices(ctx context.Context, ownerID, hotelID, status string) ([]models.Invoice, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	st := models.InvoiceStatus(status)
	switch st {
	case "", models.InvoiceUnpaid, models.InvoicePaid, models.InvoiceVoid:
	default:
		return nil, utils.NewValidationErrorf("unknown invoice status %q", status)
	}
	invoices, err := s.Repo.List(ctx, hotelID, st)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list invoices", err)
	}
	return invoices, nil
}

func (s *DefaultInvoiceService) IssueInvoice(ctx context.Context, ownerID, hotelID, bookingID string) (*models.Invoice, bool, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, false, err
	}
	b, err := s.Bookings.GetByID(ctx, hotelID, bookingID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, false, utils.NewNotFoundError("booking not found")
		}
		return nil, false, utils.NewUpstreamError("failed to load booking", err)
	}
	inv, created, err := s.Repo.Issue(ctx, b)
	if err != nil {
		return nil, false, utils.NewUpstreamError("failed to issue invoice", err)
	}
	if created {
		utils.GetLogger().Info("Invoice issued",
			zap.String("invoiceID", inv.ID),
			zap.String("number", inv.Number),
			zap.String("bookingID", bookingID))
	}
	return inv, created, nil
}
