package utils

import (
	"testing"

	"innkeep/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerRules(v))
	return v
}

func TestManualPaymentRules(t *testing.T) {
	v := newValidator(t)

	ok := models.ManualPaymentInput{Amount: decimal.NewFromInt(10), Method: models.MethodCash}
	assert.NoError(t, v.Struct(ok))

	zero := models.ManualPaymentInput{Amount: decimal.Zero, Method: models.MethodCash}
	assert.Error(t, v.Struct(zero))

	card := models.ManualPaymentInput{Amount: decimal.NewFromInt(10), Method: models.MethodCard}
	err := v.Struct(card)
	require.Error(t, err)
	assert.Equal(t, "method has an unsupported value", BindingDetails(err))
}

func TestBookingInputRules(t *testing.T) {
	v := newValidator(t)
	in := models.BookingInput{UnitID: "u", GuestID: "g", CheckIn: "2025-01-01", CheckOut: "2025-01-02", Status: "confirmed", Source: "walk_in"}
	assert.NoError(t, v.Struct(in))

	in.CheckOut = "2025/01/02"
	in.Source = "pigeon"
	err := v.Struct(in)
	require.Error(t, err)
	details := BindingDetails(err)
	assert.Contains(t, details, "check_out must be a date formatted 2006-01-02")
	assert.Contains(t, details, "source has an unsupported value")

	negative := decimal.NewFromInt(-5)
	in = models.BookingInput{UnitID: "u", GuestID: "g", CheckIn: "2025-01-01", CheckOut: "2025-01-02", TotalAmount: &negative}
	assert.Error(t, v.Struct(in))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "booking_id", toSnake("BookingID"))
	assert.Equal(t, "success_url", toSnake("SuccessURL"))
	assert.Equal(t, "name", toSnake("Name"))
}
