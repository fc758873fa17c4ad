package paymentRepo

import (
	"context"
	"testing"
	"time"

	"innkeep/database"
	"innkeep/database/dbtest"
	"innkeep/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBooking(t *testing.T, db *gorm.DB) models.Booking {
	hotel := models.Hotel{OwnerID: "owner-1", Name: "Harbour", Currency: "usd"}
	require.NoError(t, db.Create(&hotel).Error)
	unit := models.Unit{HotelID: hotel.ID, Name: "A1", NightlyRate: decimal.NewFromInt(80), Status: models.UnitAvailable}
	require.NoError(t, db.Create(&unit).Error)
	guest := models.Guest{HotelID: hotel.ID, FullName: "Grace Hopper"}
	require.NoError(t, db.Create(&guest).Error)
	b := models.Booking{
		HotelID: hotel.ID, UnitID: unit.ID, GuestID: guest.ID,
		CheckIn: models.DateOnly(mustDay("2025-01-10")), CheckOut: models.DateOnly(mustDay("2025-01-12")),
		Adults: 1, Status: models.BookingConfirmed, Source: models.SourceDirect,
		TotalAmount: decimal.NewFromInt(160), Currency: "usd",
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func pendingPayment(t *testing.T, repo PaymentRepository, b models.Booking, amount int64) *models.Payment {
	p := &models.Payment{HotelID: b.HotelID, BookingID: b.ID, Amount: decimal.NewFromInt(amount), Currency: "usd", Method: models.MethodCheckout, Status: models.PaymentPending}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func paidAmount(t *testing.T, db *gorm.DB, bookingID string) decimal.Decimal {
	var b models.Booking
	require.NoError(t, db.First(&b, "id = ?", bookingID).Error)
	return b.PaidAmount
}

func TestApplyCompletesOnceAndRefreshesPaidAmount(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewGormPaymentRepo(db)
	b := seedBooking(t, db)
	p := pendingPayment(t, repo, b, 60)

	tr := Transition{PaymentID: p.ID, EventID: "evt_1", EventType: "payment.completed", Status: models.PaymentCompleted, GatewayRef: "pi_1"}
	res, err := repo.Apply(ctx, tr)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.False(t, res.Duplicate)
	assert.Equal(t, models.PaymentCompleted, res.Payment.Status)
	assert.Equal(t, "pi_1", res.Payment.GatewayRef)
	assert.True(t, decimal.NewFromInt(60).Equal(paidAmount(t, db, b.ID)))

	res, err = repo.Apply(ctx, tr)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.False(t, res.Applied)
	assert.True(t, decimal.NewFromInt(60).Equal(paidAmount(t, db, b.ID)))

	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestApplyNeverOverwritesTerminalStatus(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewGormPaymentRepo(db)
	b := seedBooking(t, db)
	p := pendingPayment(t, repo, b, 40)

	_, err := repo.Apply(ctx, Transition{PaymentID: p.ID, EventID: "evt_fail", Status: models.PaymentFailed, FailureReason: "card_declined"})
	require.NoError(t, err)

	res, err := repo.Apply(ctx, Transition{PaymentID: p.ID, EventID: "evt_late_success", Status: models.PaymentCompleted})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, models.PaymentFailed, res.Payment.Status)
	assert.Equal(t, "card_declined", res.Payment.FailureReason)
	assert.True(t, decimal.Zero.Equal(paidAmount(t, db, b.ID)))
}

func TestApplyByGatewayRef(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewGormPaymentRepo(db)
	b := seedBooking(t, db)
	p := pendingPayment(t, repo, b, 160)
	require.NoError(t, repo.AttachGatewayRef(ctx, p.ID, "cs_test_1", "https://pay.example/cs_test_1"))

	res, err := repo.Apply(ctx, Transition{GatewayRef: "cs_test_1", Status: models.PaymentCompleted})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, p.ID, res.Payment.ID)

	var inv int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&inv).Error)
	assert.Zero(t, inv)
	assert.True(t, decimal.NewFromInt(160).Equal(paidAmount(t, db, b.ID)))
}

func TestApplyUnknownPayment(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewGormPaymentRepo(db)
	_, err := repo.Apply(context.Background(), Transition{PaymentID: "missing", EventID: "evt_x", Status: models.PaymentCompleted})
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))

	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.Zero(t, events)
}

func TestApplyWithoutReferenceMatchesNothing(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewGormPaymentRepo(db)
	b := seedBooking(t, db)
	p := pendingPayment(t, repo, b, 40)

	_, err := repo.Apply(ctx, Transition{EventID: "evt_noref", Status: models.PaymentCompleted})
	require.Error(t, err)
	assert.True(t, database.IsNotFound(err))

	var stored models.Payment
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, models.PaymentPending, stored.Status)
	assert.True(t, paidAmount(t, db, b.ID).IsZero())
}

func TestCreateCompletedPaymentRefreshesPaidAmount(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewGormPaymentRepo(db)
	b := seedBooking(t, db)

	require.NoError(t, repo.Create(ctx, &models.Payment{HotelID: b.HotelID, BookingID: b.ID, Amount: decimal.NewFromInt(30), Currency: "usd", Method: models.MethodCash, Status: models.PaymentCompleted}))
	require.NoError(t, repo.Create(ctx, &models.Payment{HotelID: b.HotelID, BookingID: b.ID, Amount: decimal.NewFromInt(20), Currency: "usd", Method: models.MethodBankTransfer, Status: models.PaymentCompleted}))
	assert.True(t, decimal.NewFromInt(50).Equal(paidAmount(t, db, b.ID)))

	list, err := repo.ListByBooking(ctx, b.HotelID, b.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func mustDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
