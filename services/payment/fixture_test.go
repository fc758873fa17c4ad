package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"innkeep/database/dbtest"
	"innkeep/database/repository"
	"innkeep/models"
	"innkeep/services/hotel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testOwner  = "owner-1"
	testSecret = "whsec_test"
)

type fixture struct {
	db      *gorm.DB
	svc     *DefaultPaymentService
	gateway *fakeGateway
	store   *memoryStore
	booking models.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	repos := repository.New(db)

	h := models.Hotel{OwnerID: testOwner, Name: "Harbour Inn", Currency: "usd"}
	require.NoError(t, db.Create(&h).Error)
	u := models.Unit{HotelID: h.ID, Name: "Room 7", Capacity: 2, NightlyRate: decimal.NewFromInt(90), Status: models.UnitAvailable}
	require.NoError(t, db.Create(&u).Error)
	g := models.Guest{HotelID: h.ID, FullName: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, db.Create(&g).Error)
	b := models.Booking{
		HotelID: h.ID, UnitID: u.ID, GuestID: g.ID,
		CheckIn:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Adults:   1, Status: models.BookingConfirmed, Source: models.SourceDirect,
		TotalAmount: decimal.NewFromInt(180), Currency: "usd",
	}
	require.NoError(t, db.Create(&b).Error)

	gw := &fakeGateway{}
	store := newMemoryStore()
	svc := &DefaultPaymentService{
		Hotels:      &hotel.DefaultHotelService{Repo: repos.Hotels, DefaultCurrency: "usd"},
		Bookings:    repos.Bookings,
		Payments:    repos.Payments,
		Gateway:     gw,
		Verifier:    &HMACVerifier{Secret: []byte(testSecret), Tolerance: 5 * time.Minute},
		Idempotency: store,
		Now:         func() time.Time { return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC) },
	}
	return &fixture{db: db, svc: svc, gateway: gw, store: store, booking: b}
}

func (f *fixture) reloadBooking(t *testing.T) models.Booking {
	t.Helper()
	var b models.Booking
	require.NoError(t, f.db.First(&b, "id = ?", f.booking.ID).Error)
	return b
}

func (f *fixture) reloadPayment(t *testing.T, id string) models.Payment {
	t.Helper()
	var p models.Payment
	require.NoError(t, f.db.First(&p, "id = ?", id).Error)
	return p
}

type fakeGateway struct {
	checkoutErr error
	direct      *GatewayPayment
	directErr   error
	lookup      *GatewayPayment
	lastReq     CheckoutRequest
}

func (g *fakeGateway) CreateCheckout(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	g.lastReq = req
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &CheckoutSession{ID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}, nil
}

func (g *fakeGateway) CreateDirectPayment(_ context.Context, _ DirectRequest) (*GatewayPayment, error) {
	if g.directErr != nil {
		return nil, g.directErr
	}
	return g.direct, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, ref string) (*GatewayPayment, error) {
	if g.lookup == nil {
		return &GatewayPayment{ID: ref, Status: models.PaymentPending}, nil
	}
	return g.lookup, nil
}

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: make(map[string]bool)}
}

func (m *memoryStore) Claim(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}
