package hotel

import (
	"context"
	"testing"

	"innkeep/database/dbtest"
	hotelRepo "innkeep/database/repository/hotel"
	"innkeep/models"
	"innkeep/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotelTenancy(t *testing.T) {
	ctx := context.Background()
	svc := &DefaultHotelService{Repo: hotelRepo.NewGormHotelRepo(dbtest.Open(t)), DefaultCurrency: "usd"}

	mine, err := svc.CreateHotel(ctx, "alice", models.HotelInput{Name: "Alice's B&B"})
	require.NoError(t, err)
	assert.Equal(t, "usd", mine.Currency)
	_, err = svc.CreateHotel(ctx, "bob", models.HotelInput{Name: "Bob's Motel", Currency: "GBP"})
	require.NoError(t, err)

	list, err := svc.ListHotels(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = svc.GetHotel(ctx, "bob", mine.ID)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, err = svc.GetHotel(ctx, "alice", "no-such-hotel")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	err = svc.DeleteHotel(ctx, "bob", mine.ID)
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	updated, err := svc.UpdateHotel(ctx, "alice", mine.ID, models.HotelInput{Name: "Alice's Inn", Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, "Alice's Inn", updated.Name)
	assert.Equal(t, "eur", updated.Currency)

	require.NoError(t, svc.DeleteHotel(ctx, "alice", mine.ID))
	_, err = svc.GetHotel(ctx, "alice", mine.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}
