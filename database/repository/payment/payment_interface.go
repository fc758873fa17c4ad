package paymentRepo

import (
	"context"

	"innkeep/models"
)

// Transition describes a status change requested by the gateway, either from a webhook event
// or from a synchronous gateway response. PaymentID wins over GatewayRef when both are set.
type Transition struct {
	PaymentID     string
	GatewayRef    string
	EventID       string
	EventType     string
	Status        models.PaymentStatus
	FailureReason string
}

// TransitionResult reports what Apply did.
type TransitionResult struct {
	Payment *models.Payment
	// Applied is true when the payment moved out of pending.
	Applied bool
	// Duplicate is true when EventID had already been processed.
	Duplicate bool
}

// PaymentRepository defines methods for payment data access.
type PaymentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByGatewayRef(ctx context.Context, ref string) (*models.Payment, error)
	ListByBooking(ctx context.Context, hotelID, bookingID string) ([]models.Payment, error)
	ListByHotel(ctx context.Context, hotelID string, status models.PaymentStatus) ([]models.Payment, error)
	// Create inserts a payment; completed payments refresh the booking's paid amount in the
	// same transaction.
	Create(ctx context.Context, payment *models.Payment) error
	// AttachGatewayRef stores the gateway's identifiers on a pending payment.
	AttachGatewayRef(ctx context.Context, id, ref, checkoutURL string) error
	// Apply moves a pending payment to a terminal status exactly once per event and refreshes
	// the booking's paid amount.
	Apply(ctx context.Context, t Transition) (*TransitionResult, error)
}
