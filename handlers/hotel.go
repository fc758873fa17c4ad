package handlers

import (
	"net/http"

	"innkeep/models"
	"innkeep/services/hotel"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
)

type HotelHandler struct {
	HotelService hotel.HotelService
}

func NewHotelHandler(s hotel.HotelService) *HotelHandler {
	return &HotelHandler{HotelService: s}
}

// ListHotels handles GET /api/hotels.
func (h *HotelHandler) ListHotels(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	hotels, err := h.HotelService.ListHotels(c.Request.Context(), owner)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, hotels)
}

// GetHotel handles GET /api/hotels/:hotelID.
func (h *HotelHandler) GetHotel(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	ht, err := h.HotelService.GetHotel(c.Request.Context(), owner, c.Param("hotelID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, ht)
}

// CreateHotel handles POST /api/hotels.
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.HotelInput
	if !bindJSON(c, &input) {
		return
	}
	ht, err := h.HotelService.CreateHotel(c.Request.Context(), owner, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, ht)
}

// UpdateHotel handles PUT /api/hotels/:hotelID.
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.HotelInput
	if !bindJSON(c, &input) {
		return
	}
	ht, err := h.HotelService.UpdateHotel(c.Request.Context(), owner, c.Param("hotelID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, ht)
}

// DeleteHotel handles DELETE /api/hotels/:hotelID. Units, guests, bookings and payments go with it.
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.HotelService.DeleteHotel(c.Request.Context(), owner, c.Param("hotelID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"deleted": true})
}
