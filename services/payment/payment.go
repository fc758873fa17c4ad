package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"innkeep/database"
	paymentRepo "innkeep/database/repository/payment"
	"innkeep/models"
	"innkeep/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *DefaultPaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// bookingFor checks ownership of the hotel and loads one of its bookings.
func (s *DefaultPaymentService) bookingFor(ctx context.Context, ownerID, hotelID, bookingID string) (*models.Booking, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	b, err := s.Bookings.GetByID(ctx, hotelID, bookingID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("booking not found")
		}
		return nil, utils.NewUpstreamError("failed to load booking", err)
	}
	return b, nil
}

// chargeAmount defaults to the outstanding balance and refuses to charge cancelled or settled
// bookings.
func chargeAmount(b *models.Booking, requested *decimal.Decimal) (decimal.Decimal, error) {
	if b.Status == models.BookingCancelled {
		return decimal.Zero, utils.NewValidationError("booking is cancelled")
	}
	amount := b.Outstanding()
	if requested != nil {
		amount = requested.Round(2)
	}
	if !amount.IsPositive() {
		return decimal.Zero, utils.NewValidationError("nothing left to pay on this booking")
	}
	return amount, nil
}

func currencyFor(b *models.Booking, requested string) (string, error) {
	cur := strings.ToLower(requested)
	if cur == "" {
		return b.Currency, nil
	}
	if cur != strings.ToLower(b.Currency) {
		return "", utils.NewValidationErrorf("currency must match the booking currency %s", b.Currency)
	}
	return cur, nil
}

func metadataFor(p *models.Payment, extra map[string]string) map[string]string {
	md := make(map[string]string, len(extra)+3)
	for k, v := range extra {
		md[k] = v
	}
	md[MetadataPaymentID] = p.ID
	md["booking_id"] = p.BookingID
	md["hotel_id"] = p.HotelID
	return md
}

func (s *DefaultPaymentService) CreateCheckout(ctx context.Context, ownerID string, input models.CheckoutInput) (*CheckoutResult, error) {
	logger := utils.GetLogger()
	b, err := s.bookingFor(ctx, ownerID, input.HotelID, input.BookingID)
	if err != nil {
		return nil, err
	}
	amount, err := chargeAmount(b, input.Amount)
	if err != nil {
		return nil, err
	}
	currency, err := currencyFor(b, input.Currency)
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		HotelID:   b.HotelID,
		BookingID: b.ID,
		Amount:    amount,
		Currency:  currency,
		Method:    models.MethodCheckout,
		Status:    models.PaymentPending,
	}
	if err := s.Payments.Create(ctx, p); err != nil {
		return nil, utils.NewUpstreamError("failed to record payment", err)
	}

	description := input.Description
	if description == "" && b.Unit != nil {
		description = "Stay in " + b.Unit.Name + " (" + b.CheckIn.Format(utils.DateLayout) + " to " + b.CheckOut.Format(utils.DateLayout) + ")"
	}
	sess, err := s.Gateway.CreateCheckout(ctx, CheckoutRequest{
		Amount:      amount,
		Currency:    currency,
		Description: description,
		SuccessURL:  input.SuccessURL,
		CancelURL:   input.CancelURL,
		Metadata:    metadataFor(p, input.Metadata),
	})
	if err != nil {
		s.failLocally(ctx, p, err)
		return nil, gatewayError(err)
	}
	if err := s.Payments.AttachGatewayRef(ctx, p.ID, sess.ID, sess.URL); err != nil {
		return nil, utils.NewUpstreamError("failed to store checkout session", err)
	}
	p.GatewayRef, p.CheckoutURL = sess.ID, sess.URL
	utils.PaymentsTotal.WithLabelValues(string(p.Method), string(p.Status)).Inc()
	logger.Info("Checkout session created",
		zap.String("paymentID", p.ID),
		zap.String("bookingID", b.ID),
		zap.String("sessionID", sess.ID))
	return &CheckoutResult{Payment: p, RedirectURL: sess.URL}, nil
}

func (s *DefaultPaymentService) CreateDirectPayment(ctx context.Context, ownerID string, input models.DirectPaymentInput) (*models.Payment, error) {
	logger := utils.GetLogger()
	if err := validateCard(input.Card, s.now()); err != nil {
		return nil, err
	}
	b, err := s.bookingFor(ctx, ownerID, input.HotelID, input.BookingID)
	if err != nil {
		return nil, err
	}
	amount, err := chargeAmount(b, input.Amount)
	if err != nil {
		return nil, err
	}
	currency, err := currencyFor(b, input.Currency)
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		HotelID:   b.HotelID,
		BookingID: b.ID,
		Amount:    amount,
		Currency:  currency,
		Method:    models.MethodCard,
		Status:    models.PaymentPending,
	}
	if err := s.Payments.Create(ctx, p); err != nil {
		return nil, utils.NewUpstreamError("failed to record payment", err)
	}

	gp, err := s.Gateway.CreateDirectPayment(ctx, DirectRequest{
		Amount:      amount,
		Currency:    currency,
		Description: "Booking " + b.ID,
		Card: Card{
			Number:   strings.ReplaceAll(input.Card.Number, " ", ""),
			ExpMonth: input.Card.ExpMonth,
			ExpYear:  input.Card.ExpYear,
			CVC:      input.Card.CVC,
			Name:     input.Card.Name,
		},
		Metadata: metadataFor(p, input.Metadata),
	})
	if err != nil {
		s.failLocally(ctx, p, err)
		return nil, gatewayError(err)
	}

	if gp.Status == models.PaymentPending {
		if err := s.Payments.AttachGatewayRef(ctx, p.ID, gp.ID, ""); err != nil {
			return nil, utils.NewUpstreamError("failed to store gateway reference", err)
		}
		p.GatewayRef = gp.ID
		logger.Info("Card payment pending at gateway", zap.String("paymentID", p.ID), zap.String("gatewayRef", gp.ID))
		return p, nil
	}

	res, err := s.Payments.Apply(ctx, paymentRepo.Transition{
		PaymentID:     p.ID,
		GatewayRef:    gp.ID,
		Status:        gp.Status,
		FailureReason: gp.FailureReason,
	})
	if err != nil {
		return nil, utils.NewUpstreamError("failed to update payment", err)
	}
	utils.PaymentsTotal.WithLabelValues(string(p.Method), string(res.Payment.Status)).Inc()
	if res.Payment.Status == models.PaymentFailed {
		return nil, &utils.AppError{Kind: utils.KindValidation, Message: "card payment was declined", Details: res.Payment.FailureReason}
	}
	logger.Info("Card payment completed", zap.String("paymentID", p.ID), zap.String("gatewayRef", gp.ID))
	return res.Payment, nil
}

// GetPayment resolves the payment's hotel and checks ownership. With refresh the gateway is
// asked for the latest status and any final outcome is applied.
func (s *DefaultPaymentService) GetPayment(ctx context.Context, ownerID, paymentID string, refresh bool) (*models.Payment, error) {
	p, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, utils.NewNotFoundError("payment not found")
		}
		return nil, utils.NewUpstreamError("failed to load payment", err)
	}
	if _, err := s.Hotels.GetHotel(ctx, ownerID, p.HotelID); err != nil {
		return nil, err
	}
	if !refresh || p.Status.IsTerminal() || p.GatewayRef == "" {
		return p, nil
	}

	gp, err := s.Gateway.GetPayment(ctx, p.GatewayRef)
	if err != nil {
		return nil, gatewayError(err)
	}
	if gp.Status == models.PaymentPending {
		return p, nil
	}
	res, err := s.Payments.Apply(ctx, paymentRepo.Transition{
		PaymentID:     p.ID,
		Status:        gp.Status,
		FailureReason: gp.FailureReason,
	})
	if err != nil {
		return nil, utils.NewUpstreamError("failed to update payment", err)
	}
	return res.Payment, nil
}

func (s *DefaultPaymentService) RecordManualPayment(ctx context.Context, ownerID, hotelID, bookingID string, input models.ManualPaymentInput) (*models.Payment, error) {
	b, err := s.bookingFor(ctx, ownerID, hotelID, bookingID)
	if err != nil {
		return nil, err
	}
	if input.Method != models.MethodCash && input.Method != models.MethodBankTransfer {
		return nil, utils.NewValidationError("manual payments must be cash or bank_transfer")
	}
	if !input.Amount.IsPositive() {
		return nil, utils.NewValidationError("amount must be greater than zero")
	}
	now := s.now().UTC()
	p := &models.Payment{
		HotelID:   b.HotelID,
		BookingID: b.ID,
		Amount:    input.Amount.Round(2),
		Currency:  b.Currency,
		Method:    input.Method,
		Status:    models.PaymentCompleted,
		Reference: utils.SanitizeText(input.Reference),
		PaidAt:    &now,
	}
	if err := s.Payments.Create(ctx, p); err != nil {
		return nil, utils.NewUpstreamError("failed to record payment", err)
	}
	utils.PaymentsTotal.WithLabelValues(string(p.Method), string(p.Status)).Inc()
	utils.GetLogger().Info("Manual payment recorded",
		zap.String("paymentID", p.ID),
		zap.String("bookingID", b.ID),
		zap.String("amount", p.Amount.String()))
	return p, nil
}

func (s *DefaultPaymentService) ListBookingPayments(ctx context.Context, ownerID, hotelID, bookingID string) ([]models.Payment, error) {
	if _, err := s.bookingFor(ctx, ownerID, hotelID, bookingID); err != nil {
		return nil, err
	}
	payments, err := s.Payments.ListByBooking(ctx, hotelID, bookingID)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list payments", err)
	}
	return payments, nil
}

func (s *DefaultPaymentService) ListHotelPayments(ctx context.Context, ownerID, hotelID, status string) ([]models.Payment, error) {
	if _, err := s.Hotels.GetHotel(ctx, ownerID, hotelID); err != nil {
		return nil, err
	}
	st := models.PaymentStatus(status)
	switch st {
	case "", models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		return nil, utils.NewValidationErrorf("unknown payment status %q", status)
	}
	payments, err := s.Payments.ListByHotel(ctx, hotelID, st)
	if err != nil {
		return nil, utils.NewUpstreamError("failed to list payments", err)
	}
	return payments, nil
}

// failLocally marks a payment failed after the gateway refused it, so it does not linger as
// pending. Transport failures leave it pending; the outcome is unknown.
func (s *DefaultPaymentService) failLocally(ctx context.Context, p *models.Payment, cause error) {
	var declined *DeclinedError
	if !errors.As(cause, &declined) && !errors.Is(cause, ErrGatewayNotConfigured) {
		return
	}
	reason := cause.Error()
	ref := ""
	if declined != nil {
		reason, ref = declined.Message, declined.Ref
	}
	if _, err := s.Payments.Apply(ctx, paymentRepo.Transition{
		PaymentID:     p.ID,
		GatewayRef:    ref,
		Status:        models.PaymentFailed,
		FailureReason: reason,
	}); err != nil {
		utils.GetLogger().Error("Failed to mark payment failed", zap.String("paymentID", p.ID), zap.Error(err))
		return
	}
	utils.PaymentsTotal.WithLabelValues(string(p.Method), string(models.PaymentFailed)).Inc()
}

func gatewayError(err error) error {
	var declined *DeclinedError
	if errors.As(err, &declined) {
		return &utils.AppError{Kind: utils.KindValidation, Message: "payment was rejected by the gateway", Details: declined.Message, Err: err}
	}
	return utils.NewUpstreamError("payment gateway request failed", err)
}

// cardRules checks card fields for callers that do not go through gin binding.
var cardRules = validator.New()

func validateCard(c models.CardInput, now time.Time) error {
	number := strings.ReplaceAll(c.Number, " ", "")
	if err := cardRules.Var(number, "required,credit_card"); err != nil {
		return utils.NewValidationError("card number is invalid")
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 {
		return utils.NewValidationError("card expiry month must be between 1 and 12")
	}
	y, m, _ := now.UTC().Date()
	if c.ExpYear < y || (c.ExpYear == y && time.Month(c.ExpMonth) < m) {
		return utils.NewValidationError("card has expired")
	}
	if err := cardRules.Var(c.CVC, "required,numeric,min=3,max=4"); err != nil {
		return utils.NewValidationError("card cvc must be 3 or 4 digits")
	}
	return nil
}
