package payment

import (
	"context"
	"testing"
	"time"

	"innkeep/models"
	"innkeep/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutInput(f *fixture) models.CheckoutInput {
	return models.CheckoutInput{
		HotelID:    f.booking.HotelID,
		BookingID:  f.booking.ID,
		SuccessURL: "https://innkeep.example.com/paid",
		CancelURL:  "https://innkeep.example.com/cancelled",
	}
}

func TestCreateCheckoutDefaultsToOutstanding(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.CreateCheckout(context.Background(), testOwner, checkoutInput(f))
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example.com/cs_test_1", res.RedirectURL)
	assert.Equal(t, models.PaymentPending, res.Payment.Status)
	assert.True(t, decimal.NewFromInt(180).Equal(res.Payment.Amount))
	assert.Equal(t, res.Payment.ID, f.gateway.lastReq.Metadata[MetadataPaymentID])
	assert.Contains(t, f.gateway.lastReq.Description, "Room 7")

	stored := f.reloadPayment(t, res.Payment.ID)
	assert.Equal(t, "cs_test_1", stored.GatewayRef)
	assert.Equal(t, "https://pay.example.com/cs_test_1", stored.CheckoutURL)
}

func TestCreateCheckoutRejectsOtherOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateCheckout(context.Background(), "intruder", checkoutInput(f))
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}

func TestCreateCheckoutRejectsCurrencyMismatch(t *testing.T) {
	f := newFixture(t)
	in := checkoutInput(f)
	in.Currency = "EUR"
	_, err := f.svc.CreateCheckout(context.Background(), testOwner, in)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestCreateCheckoutDeclinedMarksPaymentFailed(t *testing.T) {
	f := newFixture(t)
	f.gateway.checkoutErr = &DeclinedError{Code: "amount_too_small", Message: "Amount must be at least 50 cents"}

	_, err := f.svc.CreateCheckout(context.Background(), testOwner, checkoutInput(f))
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	var payments []models.Payment
	require.NoError(t, f.db.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentFailed, payments[0].Status)
}

func validCard() models.CardInput {
	return models.CardInput{Number: "4242 4242 4242 4242", ExpMonth: 12, ExpYear: 2030, CVC: "123", Name: "Ada Lovelace"}
}

func TestCreateDirectPaymentCompleted(t *testing.T) {
	f := newFixture(t)
	f.gateway.direct = &GatewayPayment{ID: "pi_ok", Status: models.PaymentCompleted}
	amount := decimal.NewFromInt(50)

	p, err := f.svc.CreateDirectPayment(context.Background(), testOwner, models.DirectPaymentInput{
		HotelID: f.booking.HotelID, BookingID: f.booking.ID, Amount: &amount, Card: validCard(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.Equal(t, "pi_ok", p.GatewayRef)

	b := f.reloadBooking(t)
	assert.True(t, decimal.NewFromInt(50).Equal(b.PaidAmount))
	assert.True(t, decimal.NewFromInt(130).Equal(b.Outstanding()))
}

func TestCreateDirectPaymentDeclined(t *testing.T) {
	f := newFixture(t)
	f.gateway.direct = &GatewayPayment{ID: "pi_no", Status: models.PaymentFailed, FailureReason: "insufficient_funds"}

	_, err := f.svc.CreateDirectPayment(context.Background(), testOwner, models.DirectPaymentInput{
		HotelID: f.booking.HotelID, BookingID: f.booking.ID, Card: validCard(),
	})
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindValidation))
	assert.True(t, f.reloadBooking(t).PaidAmount.IsZero())
}

func TestCreateDirectPaymentValidatesCard(t *testing.T) {
	f := newFixture(t)
	cases := map[string]func(*models.CardInput){
		"luhn":    func(c *models.CardInput) { c.Number = "4242424242424241" },
		"expired": func(c *models.CardInput) { c.ExpYear, c.ExpMonth = 2025, 1 },
		"cvc":     func(c *models.CardInput) { c.CVC = "12a" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			card := validCard()
			mutate(&card)
			_, err := f.svc.CreateDirectPayment(context.Background(), testOwner, models.DirectPaymentInput{
				HotelID: f.booking.HotelID, BookingID: f.booking.ID, Card: card,
			})
			require.Error(t, err)
			assert.True(t, utils.IsKind(err, utils.KindValidation))
		})
	}
}

func TestValidateCard(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	ok := models.CardInput{Number: "4242 4242 4242 4242", ExpMonth: 2, ExpYear: 2025, CVC: "123"}
	require.NoError(t, validateCard(ok, now))

	for name, card := range map[string]models.CardInput{
		"letters":     {Number: "4242abcd42424242", ExpMonth: 12, ExpYear: 2030, CVC: "123"},
		"short":       {Number: "4242", ExpMonth: 12, ExpYear: 2030, CVC: "123"},
		"month":       {Number: "4242424242424242", ExpMonth: 13, ExpYear: 2030, CVC: "123"},
		"last month":  {Number: "4242424242424242", ExpMonth: 1, ExpYear: 2025, CVC: "123"},
		"long cvc":    {Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030, CVC: "12345"},
		"missing cvc": {Number: "4242424242424242", ExpMonth: 12, ExpYear: 2030},
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, utils.IsKind(validateCard(card, now), utils.KindValidation))
		})
	}
}

func TestGetPaymentRefreshAppliesGatewayOutcome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res, err := f.svc.CreateCheckout(ctx, testOwner, checkoutInput(f))
	require.NoError(t, err)

	p, err := f.svc.GetPayment(ctx, testOwner, res.Payment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)

	f.gateway.lookup = &GatewayPayment{ID: "cs_test_1", Status: models.PaymentCompleted}
	p, err = f.svc.GetPayment(ctx, testOwner, res.Payment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.True(t, decimal.NewFromInt(180).Equal(f.reloadBooking(t).PaidAmount))

	_, err = f.svc.GetPayment(ctx, "intruder", res.Payment.ID, false)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}

func TestRecordManualPaymentUpdatesPaidAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.RecordManualPayment(ctx, testOwner, f.booking.HotelID, f.booking.ID, models.ManualPaymentInput{
		Amount: decimal.NewFromInt(30), Method: models.MethodCash, Reference: "<b>desk</b> receipt 12",
	})
	require.NoError(t, err)
	p, err := f.svc.RecordManualPayment(ctx, testOwner, f.booking.HotelID, f.booking.ID, models.ManualPaymentInput{
		Amount: decimal.NewFromInt(20), Method: models.MethodBankTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, p.Status)
	assert.True(t, decimal.NewFromInt(50).Equal(f.reloadBooking(t).PaidAmount))

	list, err := f.svc.ListBookingPayments(ctx, testOwner, f.booking.HotelID, f.booking.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	refs := []string{list[0].Reference, list[1].Reference}
	assert.Contains(t, refs, "desk receipt 12")

	_, err = f.svc.RecordManualPayment(ctx, testOwner, f.booking.HotelID, f.booking.ID, models.ManualPaymentInput{
		Amount: decimal.NewFromInt(20), Method: models.MethodCard,
	})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}
