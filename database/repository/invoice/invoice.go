package invoiceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innkeep/database"
	"innkeep/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InvoiceRepository defines methods for invoice data access.
type InvoiceRepository interface {
	List(ctx context.Context, hotelID string, status models.InvoiceStatus) ([]models.Invoice, error)
	GetByBooking(ctx context.Context, hotelID, bookingID string) (*models.Invoice, error)
	// Issue creates the invoice of a booking, or returns the existing one with created=false.
	Issue(ctx context.Context, booking *models.Booking) (invoice *models.Invoice, created bool, err error)
}

// GormInvoiceRepo implements InvoiceRepository using GORM.
type GormInvoiceRepo struct {
	db *gorm.DB
}

func NewGormInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &GormInvoiceRepo{db: db}
}

func (r *GormInvoiceRepo) List(ctx context.Context, hotelID string, status models.InvoiceStatus) ([]models.Invoice, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var invoices []models.Invoice
	if err := q.Order("issued_at DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices of hotel %s: %w", hotelID, err)
	}
	return invoices, nil
}

func (r *GormInvoiceRepo) GetByBooking(ctx context.Context, hotelID, bookingID string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "hotel_id = ? AND booking_id = ?", hotelID, bookingID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice of booking %s: %w", bookingID, database.NotFound(err))
	}
	return &invoice, nil
}

// Issue numbers invoices per hotel as INV-<year>-<sequence>.
func (r *GormInvoiceRepo) Issue(ctx context.Context, booking *models.Booking) (*models.Invoice, bool, error) {
	var invoice models.Invoice
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialise issuers on the booking row.
		var locked models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "id = ? AND hotel_id = ?", booking.ID, booking.HotelID).Error; err != nil {
			return fmt.Errorf("failed to lock booking %s: %w", booking.ID, database.NotFound(err))
		}

		err := tx.First(&invoice, "booking_id = ?", booking.ID).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to fetch invoice of booking %s: %w", booking.ID, err)
		}

		var count int64
		if err := tx.Model(&models.Invoice{}).Where("hotel_id = ?", booking.HotelID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count invoices: %w", err)
		}
		now := time.Now().UTC()
		invoice = models.Invoice{
			HotelID:   booking.HotelID,
			BookingID: booking.ID,
			Number:    fmt.Sprintf("INV-%d-%s-%05d", now.Year(), shortID(booking.HotelID), count+1),
			Amount:    locked.TotalAmount,
			Currency:  locked.Currency,
			Status:    models.InvoiceUnpaid,
			IssuedAt:  now,
		}
		switch {
		case locked.Status == models.BookingCancelled:
			invoice.Status = models.InvoiceVoid
		case locked.PaidAmount.GreaterThanOrEqual(locked.TotalAmount):
			invoice.Status = models.InvoicePaid
			invoice.PaidAt = &now
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &invoice, created, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
