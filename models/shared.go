package models

import (
	"time"

	"github.com/google/uuid"
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// DateOnly truncates t to midnight UTC so stored dates compare consistently.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AllModels lists every table managed by the application, in migration order.
func AllModels() []any {
	return []any{
		&Hotel{},
		&Unit{},
		&Guest{},
		&Booking{},
		&Payment{},
		&Invoice{},
		&BookingRule{},
		&WebhookEvent{},
	}
}
