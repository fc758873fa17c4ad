package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"innkeep/database"
	"innkeep/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBookingRepo implements BookingRepository using GORM.
type GormBookingRepo struct {
	db *gorm.DB
}

func NewGormBookingRepo(db *gorm.DB) BookingRepository {
	return &GormBookingRepo{db: db}
}

func (r *GormBookingRepo) List(ctx context.Context, hotelID string, filter BookingFilter) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UnitID != "" {
		q = q.Where("unit_id = ?", filter.UnitID)
	}
	if filter.GuestID != "" {
		q = q.Where("guest_id = ?", filter.GuestID)
	}
	if filter.From != nil {
		q = q.Where("check_out >= ?", models.DateOnly(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("check_in <= ?", models.DateOnly(*filter.To))
	}
	var bookings []models.Booking
	if err := q.Preload("Unit").Preload("Guest").Order("check_in ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings of hotel %s: %w", hotelID, err)
	}
	return bookings, nil
}

func (r *GormBookingRepo) GetByID(ctx context.Context, hotelID, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Unit").Preload("Guest").
		First(&booking, "id = ? AND hotel_id = ?", id, hotelID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, database.NotFound(err))
	}
	return &booking, nil
}

func (r *GormBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFree(tx, booking); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

func (r *GormBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if booking.Status != models.BookingCancelled {
			if err := ensureFree(tx, booking); err != nil {
				return err
			}
		}
		// paid_amount is owned by RefreshPaidAmount; a stale copy must not overwrite it.
		if err := tx.Omit(clause.Associations, "paid_amount").Save(booking).Error; err != nil {
			return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
		}
		if err := reissueInvoice(tx, booking); err != nil {
			return err
		}
		if err := RefreshPaidAmount(tx, booking.ID); err != nil {
			return err
		}
		var fresh models.Booking
		if err := tx.Select("paid_amount", "updated_at").First(&fresh, "id = ?", booking.ID).Error; err != nil {
			return fmt.Errorf("failed to reload booking %s: %w", booking.ID, err)
		}
		booking.PaidAmount = fresh.PaidAmount
		booking.UpdatedAt = fresh.UpdatedAt
		return nil
	})
}

// reissueInvoice carries a changed total onto the booking's open invoice and reopens a paid
// invoice the payments no longer cover. RefreshPaidAmount settles it again when they do.
func reissueInvoice(tx *gorm.DB, booking *models.Booking) error {
	now := time.Now().UTC()
	err := tx.Model(&models.Invoice{}).
		Where("booking_id = ? AND status <> ?", booking.ID, models.InvoiceVoid).
		Updates(map[string]any{"amount": booking.TotalAmount, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("failed to update invoice of booking %s: %w", booking.ID, err)
	}
	err = tx.Exec(`UPDATE invoices SET status = ?, paid_at = NULL, updated_at = ?
		WHERE booking_id = ? AND status = ?
		AND amount > (SELECT paid_amount FROM bookings WHERE id = ?)`,
		models.InvoiceUnpaid, now, booking.ID, models.InvoicePaid, booking.ID).Error
	if err != nil {
		return fmt.Errorf("failed to reopen invoice of booking %s: %w", booking.ID, err)
	}
	return nil
}

// ensureFree locks the unit row, serialising writers for that unit, then looks for an
// intersecting booking.
func ensureFree(tx *gorm.DB, booking *models.Booking) error {
	var unit models.Unit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&unit, "id = ? AND hotel_id = ?", booking.UnitID, booking.HotelID).Error
	if err != nil {
		return fmt.Errorf("failed to lock unit %s: %w", booking.UnitID, database.NotFound(err))
	}

	conflicts, err := overlapping(tx.Clauses(clause.Locking{Strength: "UPDATE"}),
		booking.UnitID, booking.CheckIn, booking.CheckOut, booking.ID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		c := conflicts[0]
		return &OverlapError{BookingID: c.ID, CheckIn: c.CheckIn, CheckOut: c.CheckOut}
	}
	return nil
}

// overlapping applies the inclusive intersection test
// existing.check_in <= new.check_out AND existing.check_out >= new.check_in.
func overlapping(tx *gorm.DB, unitID string, checkIn, checkOut time.Time, excludeID string) ([]models.Booking, error) {
	q := tx.Model(&models.Booking{}).
		Where("unit_id = ? AND status <> ?", unitID, models.BookingCancelled).
		Where("check_in <= ? AND check_out >= ?", models.DateOnly(checkOut), models.DateOnly(checkIn))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var bookings []models.Booking
	if err := q.Order("check_in ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to check overlapping bookings for unit %s: %w", unitID, err)
	}
	return bookings, nil
}

func (r *GormBookingRepo) FindOverlapping(ctx context.Context, unitID string, checkIn, checkOut time.Time, excludeID string) ([]models.Booking, error) {
	return overlapping(r.db.WithContext(ctx), unitID, checkIn, checkOut, excludeID)
}

func (r *GormBookingRepo) Cancel(ctx context.Context, hotelID, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ? AND hotel_id = ?", id, hotelID).Error; err != nil {
			return fmt.Errorf("failed to fetch booking %s: %w", id, database.NotFound(err))
		}
		if booking.Status == models.BookingCancelled {
			return nil
		}
		now := time.Now().UTC()
		booking.Status = models.BookingCancelled
		booking.CancelledAt = &now
		if err := tx.Model(&booking).Updates(map[string]any{
			"status":       booking.Status,
			"cancelled_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to cancel booking %s: %w", id, err)
		}
		return tx.Model(&models.Invoice{}).
			Where("booking_id = ? AND status = ?", id, models.InvoiceUnpaid).
			Update("status", models.InvoiceVoid).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *GormBookingRepo) Delete(ctx context.Context, hotelID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ? AND hotel_id = ?", id, hotelID).Delete(&models.Invoice{}).Error; err != nil {
			return fmt.Errorf("failed to delete invoice of booking %s: %w", id, err)
		}
		if err := tx.Where("booking_id = ? AND hotel_id = ? AND status <> ?", id, hotelID, models.PaymentCompleted).
			Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("failed to delete payments of booking %s: %w", id, err)
		}
		result := tx.Delete(&models.Booking{}, "id = ? AND hotel_id = ?", id, hotelID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete booking %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
		}
		return nil
	})
}

func (r *GormBookingRepo) HasCompletedPayments(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", id, models.PaymentCompleted).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count payments of booking %s: %w", id, err)
	}
	return count > 0, nil
}

// RefreshPaidAmount recomputes paid_amount from completed payments in a single statement and
// settles the booking's invoice once it is fully paid. It must run inside the transaction that
// changed the payment.
func RefreshPaidAmount(tx *gorm.DB, bookingID string) error {
	now := time.Now().UTC()
	err := tx.Exec(`UPDATE bookings SET paid_amount = (
			SELECT COALESCE(SUM(amount), 0) FROM payments WHERE booking_id = ? AND status = ?
		), updated_at = ? WHERE id = ?`,
		bookingID, models.PaymentCompleted, now, bookingID).Error
	if err != nil {
		return fmt.Errorf("failed to refresh paid amount of booking %s: %w", bookingID, err)
	}
	err = tx.Exec(`UPDATE invoices SET status = ?, paid_at = ?, updated_at = ?
		WHERE booking_id = ? AND status = ?
		AND amount <= (SELECT paid_amount FROM bookings WHERE id = ?)`,
		models.InvoicePaid, now, now, bookingID, models.InvoiceUnpaid, bookingID).Error
	if err != nil {
		return fmt.Errorf("failed to settle invoice of booking %s: %w", bookingID, err)
	}
	return nil
}
