package handlers

import (
	"io"
	"net/http"
	"strconv"

	"innkeep/models"
	"innkeep/services/payment"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody caps the size of a gateway callback.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	PaymentService payment.PaymentService
}

func NewPaymentHandler(s payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{PaymentService: s}
}

// CreateCheckout handles POST /api/payments/checkout and returns the hosted page URL.
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.CheckoutInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := h.PaymentService.CreateCheckout(c.Request.Context(), owner, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, res)
}

// CreateDirectPayment handles POST /api/payments/direct. A declined card is reported as 400
// with the failed payment recorded.
func (h *PaymentHandler) CreateDirectPayment(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.DirectPaymentInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.PaymentService.CreateDirectPayment(c.Request.Context(), owner, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, p)
}

// GetPayment handles GET /api/payments/:paymentID. With refresh=true a pending payment is
// reconciled against the gateway first.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	refresh := false
	if raw := c.Query("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid refresh flag", raw)
			return
		}
		refresh = v
	}
	p, err := h.PaymentService.GetPayment(c.Request.Context(), owner, c.Param("paymentID"), refresh)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, p)
}

// RecordManualPayment handles POST /api/hotels/:hotelID/bookings/:bookingID/payments.
func (h *PaymentHandler) RecordManualPayment(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.ManualPaymentInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.PaymentService.RecordManualPayment(c.Request.Context(), owner, c.Param("hotelID"), c.Param("bookingID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, p)
}

func (h *PaymentHandler) ListBookingPayments(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	payments, err := h.PaymentService.ListBookingPayments(c.Request.Context(), owner, c.Param("hotelID"), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, payments)
}

// ListHotelPayments handles GET /api/hotels/:hotelID/payments?status=.
func (h *PaymentHandler) ListHotelPayments(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	payments, err := h.PaymentService.ListHotelPayments(c.Request.Context(), owner, c.Param("hotelID"), c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, payments)
}

// Webhook handles POST /api/webhooks/payments. The raw body is verified before it is parsed.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.GetLogger().Warn("Failed to read webhook body", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Unreadable request body", "")
		return
	}
	res, err := h.PaymentService.HandleWebhook(c.Request.Context(), c.Request.Header, payload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, res)
}
