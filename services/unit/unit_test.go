package unit

import (
	"context"
	"testing"
	"time"

	"innkeep/database/dbtest"
	hotelRepo "innkeep/database/repository/hotel"
	unitRepo "innkeep/database/repository/unit"
	"innkeep/models"
	"innkeep/services/hotel"
	"innkeep/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*DefaultUnitService, *gorm.DB, string) {
	t.Helper()
	db := dbtest.Open(t)
	h := models.Hotel{OwnerID: "owner-1", Name: "Harbour Inn", Currency: "usd"}
	require.NoError(t, db.Create(&h).Error)
	return &DefaultUnitService{
		Hotels: &hotel.DefaultHotelService{Repo: hotelRepo.NewGormHotelRepo(db)},
		Repo:   unitRepo.NewGormUnitRepo(db),
	}, db, h.ID
}

func TestCreateUnitDefaults(t *testing.T) {
	svc, _, hotelID := newService(t)
	ctx := context.Background()

	u, err := svc.CreateUnit(ctx, "owner-1", hotelID, models.UnitInput{
		Name:        " 101 ",
		Type:        "double",
		NightlyRate: decimal.RequireFromString("89.999"),
	})
	require.NoError(t, err)
	assert.Equal(t, "101", u.Name)
	assert.Equal(t, 1, u.Capacity)
	assert.Equal(t, models.UnitAvailable, u.Status)
	assert.Equal(t, "90", u.NightlyRate.String())

	_, err = svc.CreateUnit(ctx, "owner-1", hotelID, models.UnitInput{Name: "102", NightlyRate: decimal.NewFromInt(-1)})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = svc.CreateUnit(ctx, "intruder", hotelID, models.UnitInput{Name: "103"})
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}

func TestListUnitsFilters(t *testing.T) {
	svc, _, hotelID := newService(t)
	ctx := context.Background()

	_, err := svc.CreateUnit(ctx, "owner-1", hotelID, models.UnitInput{Name: "101", Type: "double"})
	require.NoError(t, err)
	_, err = svc.CreateUnit(ctx, "owner-1", hotelID, models.UnitInput{Name: "102", Type: "suite", Status: models.UnitMaintenance})
	require.NoError(t, err)

	all, err := svc.ListUnits(ctx, "owner-1", hotelID, unitRepo.UnitFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	suites, err := svc.ListUnits(ctx, "owner-1", hotelID, unitRepo.UnitFilter{Type: "suite"})
	require.NoError(t, err)
	require.Len(t, suites, 1)
	assert.Equal(t, "102", suites[0].Name)

	inMaintenance, err := svc.ListUnits(ctx, "owner-1", hotelID, unitRepo.UnitFilter{Status: models.UnitMaintenance})
	require.NoError(t, err)
	assert.Len(t, inMaintenance, 1)

	_, err = svc.ListUnits(ctx, "owner-1", hotelID, unitRepo.UnitFilter{Status: "haunted"})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestUpdateUnitKeepsStatusWhenOmitted(t *testing.T) {
	svc, _, hotelID := newService(t)
	ctx := context.Background()

	u, err := svc.CreateUnit(ctx, "owner-1", hotelID, models.UnitInput{Name: "101", Status: models.UnitOutOfService})
	require.NoError(t, err)

	updated, err := svc.UpdateUnit(ctx, "owner-1", hotelID, u.ID, models.UnitInput{Name: "101A", Capacity: 3})
	require.NoError(t, err)
	assert.Equal(t, "101A", updated.Name)
	assert.Equal(t, 3, updated.Capacity)
	assert.Equal(t, models.UnitOutOfService, updated.Status)

	_, err = svc.UpdateUnit(ctx, "owner-1", hotelID, "missing", models.UnitInput{Name: "x"})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestDeleteUnitWithBookingsConflicts(t *testing.T) {
	svc, db, hotelID := newService(t)
	ctx := context.Background()

	booked, err := svc.CreateUnit(ctx, "owner-1", hotelID, models.UnitInput{Name: "101"})
	require.NoError(t, err)
	empty, err := svc.CreateUnit(ctx, "owner-1", hotelID, models.UnitInput{Name: "102"})
	require.NoError(t, err)

	g := models.Guest{HotelID: hotelID, FullName: "Grace Hopper"}
	require.NoError(t, db.Create(&g).Error)
	require.NoError(t, db.Create(&models.Booking{
		HotelID:  hotelID,
		UnitID:   booked.ID,
		GuestID:  g.ID,
		CheckIn:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Status:   models.BookingConfirmed,
		Source:   models.SourceDirect,
		Currency: "usd",
	}).Error)

	err = svc.DeleteUnit(ctx, "owner-1", hotelID, booked.ID)
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	require.NoError(t, svc.DeleteUnit(ctx, "owner-1", hotelID, empty.ID))
	_, err = svc.GetUnit(ctx, "owner-1", hotelID, empty.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}
