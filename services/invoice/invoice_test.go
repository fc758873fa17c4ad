package invoice

import (
	"context"
	"strings"
	"testing"
	"time"

	"innkeep/database/dbtest"
	"innkeep/database/repository"
	"innkeep/models"
	"innkeep/services/hotel"
	"innkeep/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueInvoiceOncePerBooking(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repos := repository.New(db)
	svc := &DefaultInvoiceService{
		Hotels:   &hotel.DefaultHotelService{Repo: repos.Hotels},
		Bookings: repos.Bookings,
		Repo:     repos.Invoices,
	}

	h := models.Hotel{OwnerID: "owner-1", Name: "Harbour Inn", Currency: "usd"}
	require.NoError(t, db.Create(&h).Error)
	u := models.Unit{HotelID: h.ID, Name: "Loft", NightlyRate: decimal.NewFromInt(100), Status: models.UnitAvailable}
	require.NoError(t, db.Create(&u).Error)
	g := models.Guest{HotelID: h.ID, FullName: "Grace Hopper"}
	require.NoError(t, db.Create(&g).Error)
	b := models.Booking{
		HotelID: h.ID, UnitID: u.ID, GuestID: g.ID,
		CheckIn:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC),
		Adults:   1, Status: models.BookingConfirmed, Source: models.SourcePhone,
		TotalAmount: decimal.NewFromInt(200), Currency: "usd",
	}
	require.NoError(t, db.Create(&b).Error)

	inv, created, err := svc.IssueInvoice(ctx, "owner-1", h.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(inv.Number, "INV-"))
	assert.Equal(t, models.InvoiceUnpaid, inv.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(inv.Amount))

	again, created, err := svc.IssueInvoice(ctx, "owner-1", h.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, inv.ID, again.ID)

	// Settling the balance marks the invoice paid.
	p := &models.Payment{HotelID: h.ID, BookingID: b.ID, Amount: decimal.NewFromInt(200), Currency: "usd", Method: models.MethodBankTransfer, Status: models.PaymentCompleted}
	require.NoError(t, repos.Payments.Create(ctx, p))
	list, err := svc.ListInvoices(ctx, "owner-1", h.ID, string(models.InvoicePaid))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inv.ID, list[0].ID)

	_, _, err = svc.IssueInvoice(ctx, "owner-2", h.ID, b.ID)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}
