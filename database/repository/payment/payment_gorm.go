package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"innkeep/database"
	bookingRepo "innkeep/database/repository/booking"
	"innkeep/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepo implements PaymentRepository using GORM.
type GormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepo{db: db}
}

func (r *GormPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payment %s: %w", id, database.NotFound(err))
	}
	return &payment, nil
}

func (r *GormPaymentRepo) GetByGatewayRef(ctx context.Context, ref string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "gateway_ref = ?", ref).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch payment with gateway ref %s: %w", ref, database.NotFound(err))
	}
	return &payment, nil
}

func (r *GormPaymentRepo) ListByBooking(ctx context.Context, hotelID, bookingID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND booking_id = ?", hotelID, bookingID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of booking %s: %w", bookingID, err)
	}
	return payments, nil
}

func (r *GormPaymentRepo) ListByHotel(ctx context.Context, hotelID string, status models.PaymentStatus) ([]models.Payment, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var payments []models.Payment
	if err := q.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments of hotel %s: %w", hotelID, err)
	}
	return payments, nil
}

func (r *GormPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		if payment.Status == models.PaymentCompleted {
			return bookingRepo.RefreshPaidAmount(tx, payment.BookingID)
		}
		return nil
	})
}

func (r *GormPaymentRepo) AttachGatewayRef(ctx context.Context, id, ref, checkoutURL string) error {
	updates := map[string]any{"gateway_ref": ref}
	if checkoutURL != "" {
		updates["checkout_url"] = checkoutURL
	}
	result := r.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to attach gateway ref to payment %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *GormPaymentRepo) Apply(ctx context.Context, t Transition) (*TransitionResult, error) {
	if !t.Status.IsTerminal() {
		return nil, fmt.Errorf("cannot transition payment to %q", t.Status)
	}
	if t.PaymentID == "" && t.GatewayRef == "" {
		return nil, fmt.Errorf("transition without payment id or gateway ref: %w", database.ErrNotFound)
	}
	res := &TransitionResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if t.EventID != "" {
			ev := models.WebhookEvent{ID: t.EventID, Type: t.EventType, PaymentID: t.PaymentID, ProcessedAt: time.Now().UTC()}
			inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ev)
			if inserted.Error != nil {
				return fmt.Errorf("failed to record webhook event %s: %w", t.EventID, inserted.Error)
			}
			if inserted.RowsAffected == 0 {
				res.Duplicate = true
			}
		}

		var payment models.Payment
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"})
		var err error
		if t.PaymentID != "" {
			err = q.First(&payment, "id = ?", t.PaymentID).Error
		} else {
			err = q.First(&payment, "gateway_ref = ?", t.GatewayRef).Error
		}
		if err != nil {
			return fmt.Errorf("failed to fetch payment for transition: %w", database.NotFound(err))
		}
		res.Payment = &payment
		if res.Duplicate || payment.Status.IsTerminal() {
			return nil
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": t.Status}
		payment.Status = t.Status
		if t.Status == models.PaymentCompleted {
			updates["paid_at"] = now
			updates["failure_reason"] = ""
			payment.PaidAt = &now
			payment.FailureReason = ""
		} else {
			updates["failure_reason"] = t.FailureReason
			payment.FailureReason = t.FailureReason
		}
		if payment.GatewayRef == "" && t.GatewayRef != "" {
			updates["gateway_ref"] = t.GatewayRef
			payment.GatewayRef = t.GatewayRef
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update payment %s: %w", payment.ID, err)
		}
		res.Applied = true
		return bookingRepo.RefreshPaidAmount(tx, payment.BookingID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
