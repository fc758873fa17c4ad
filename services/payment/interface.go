package payment

import (
	"context"
	"net/http"
	"time"

	bookingRepo "innkeep/database/repository/booking"
	paymentRepo "innkeep/database/repository/payment"
	"innkeep/models"
	"innkeep/services/hotel"
)

// IdempotencyStore is an optional fast path for recognising replayed webhook events before the
// database is touched. The webhook_events table remains authoritative.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// CheckoutResult is returned by CreateCheckout.
type CheckoutResult struct {
	Payment     *models.Payment `json:"payment"`
	RedirectURL string          `json:"redirect_url"`
}

// WebhookResult describes how a delivery was handled.
type WebhookResult struct {
	EventID   string               `json:"event_id"`
	Type      string               `json:"type"`
	PaymentID string               `json:"payment_id,omitempty"`
	Status    models.PaymentStatus `json:"status,omitempty"`
	Applied   bool                 `json:"applied"`
	Duplicate bool                 `json:"duplicate"`
	Ignored   bool                 `json:"ignored,omitempty"`
}

type PaymentService interface {
	CreateCheckout(ctx context.Context, ownerID string, input models.CheckoutInput) (*CheckoutResult, error)
	CreateDirectPayment(ctx context.Context, ownerID string, input models.DirectPaymentInput) (*models.Payment, error)
	GetPayment(ctx context.Context, ownerID, paymentID string, refresh bool) (*models.Payment, error)
	RecordManualPayment(ctx context.Context, ownerID, hotelID, bookingID string, input models.ManualPaymentInput) (*models.Payment, error)
	ListBookingPayments(ctx context.Context, ownerID, hotelID, bookingID string) ([]models.Payment, error)
	ListHotelPayments(ctx context.Context, ownerID, hotelID, status string) ([]models.Payment, error)
	HandleWebhook(ctx context.Context, header http.Header, payload []byte) (*WebhookResult, error)
}

// DefaultPaymentService is the production implementation. Idempotency may be nil.
type DefaultPaymentService struct {
	Hotels      hotel.Resolver
	Bookings    bookingRepo.BookingRepository
	Payments    paymentRepo.PaymentRepository
	Gateway     Gateway
	Verifier    Verifier
	Idempotency IdempotencyStore
	// Now is used for card expiry checks.
	Now func() time.Time
}
