package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"innkeep/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *GormBookingRepo) Summary(ctx context.Context, hotelID string, from, to time.Time) (*Summary, error) {
	from, to = models.DateOnly(from), models.DateOnly(to)
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Booking{}).
			Where("hotel_id = ? AND check_in >= ? AND check_in <= ?", hotelID, from, to)
	}

	var counts []struct {
		Status models.BookingStatus
		Total  int64
	}
	if err := base().Select("status, COUNT(*) AS total").Group("status").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings of hotel %s: %w", hotelID, err)
	}

	var sums struct {
		Revenue   decimal.NullDecimal
		Collected decimal.NullDecimal
	}
	err := base().Where("status <> ?", models.BookingCancelled).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COALESCE(SUM(paid_amount), 0) AS collected").
		Scan(&sums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum bookings of hotel %s: %w", hotelID, err)
	}

	var stays []models.Booking
	if err := base().Where("status <> ?", models.BookingCancelled).
		Select("check_in", "check_out").Find(&stays).Error; err != nil {
		return nil, fmt.Errorf("failed to load stays of hotel %s: %w", hotelID, err)
	}

	s := &Summary{
		From:      from,
		To:        to,
		ByStatus:  make(map[models.BookingStatus]int64, len(models.BookingStatuses)),
		Revenue:   sums.Revenue.Decimal,
		Collected: sums.Collected.Decimal,
	}
	for _, st := range models.BookingStatuses {
		s.ByStatus[st] = 0
	}
	for _, c := range counts {
		s.ByStatus[c.Status] = c.Total
		s.Bookings += c.Total
	}
	for i := range stays {
		s.Nights += stays[i].Nights()
	}
	s.Outstanding = s.Revenue.Sub(s.Collected)
	if s.Outstanding.IsNegative() {
		s.Outstanding = decimal.Zero
	}
	return s, nil
}
