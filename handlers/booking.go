package handlers

import (
	"net/http"

	"innkeep/models"
	"innkeep/services/booking"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	BookingService booking.BookingService
}

func NewBookingHandler(s booking.BookingService) *BookingHandler {
	return &BookingHandler{BookingService: s}
}

// ListBookings handles GET /api/hotels/:hotelID/bookings with optional status, unit_id,
// guest_id, from and to filters.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	filter := booking.ListFilter{
		Status:  c.Query("status"),
		UnitID:  c.Query("unit_id"),
		GuestID: c.Query("guest_id"),
		From:    c.Query("from"),
		To:      c.Query("to"),
	}
	bookings, err := h.BookingService.ListBookings(c.Request.Context(), owner, c.Param("hotelID"), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	b, err := h.BookingService.GetBooking(c.Request.Context(), owner, c.Param("hotelID"), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, b)
}

// CreateBooking handles POST /api/hotels/:hotelID/bookings. Overlapping stays are answered
// with 400 and the conflicting booking in details.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.BookingInput
	if !bindJSON(c, &input) {
		return
	}
	b, err := h.BookingService.CreateBooking(c.Request.Context(), owner, c.Param("hotelID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, b)
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.BookingInput
	if !bindJSON(c, &input) {
		return
	}
	b, err := h.BookingService.UpdateBooking(c.Request.Context(), owner, c.Param("hotelID"), c.Param("bookingID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, b)
}

// CancelBooking handles POST /api/hotels/:hotelID/bookings/:bookingID/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	b, err := h.BookingService.CancelBooking(c.Request.Context(), owner, c.Param("hotelID"), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, b)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.BookingService.DeleteBooking(c.Request.Context(), owner, c.Param("hotelID"), c.Param("bookingID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"deleted": true})
}

// Summary handles GET /api/hotels/:hotelID/reports/summary?from=&to=.
func (h *BookingHandler) Summary(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	summary, err := h.BookingService.Summary(c.Request.Context(), owner, c.Param("hotelID"), c.Query("from"), c.Query("to"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, summary)
}
