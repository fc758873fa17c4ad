package payment

import (
	"context"
	"errors"
	"fmt"

	"innkeep/models"

	"github.com/shopspring/decimal"
)

// MetadataPaymentID is the metadata key carrying the local payment id through the gateway and
// back in webhooks.
const MetadataPaymentID = "payment_id"

type CheckoutRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type Card struct {
	Number   string
	ExpMonth int
	ExpYear  int
	CVC      string
	Name     string
}

type DirectRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Card        Card
	Metadata    map[string]string
}

// GatewayPayment is the gateway's view of a payment. Status is pending until the gateway
// reports a final outcome.
type GatewayPayment struct {
	ID            string
	Status        models.PaymentStatus
	FailureReason string
}

// Gateway is an external payment processor.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	CreateDirectPayment(ctx context.Context, req DirectRequest) (*GatewayPayment, error)
	GetPayment(ctx context.Context, ref string) (*GatewayPayment, error)
}

// DeclinedError is returned when the gateway rejects the card or the request itself.
// Ref is set when the gateway created a payment object before declining.
type DeclinedError struct {
	Code    string
	Message string
	Ref     string
}

func (e *DeclinedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Message)
	}
	return "payment declined: " + e.Message
}

// ErrGatewayNotConfigured is returned by every call when no API key is set.
var ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
