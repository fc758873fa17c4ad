package handlers

import (
	"net/http"

	"innkeep/models"
	"innkeep/services/guest"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
)

type GuestHandler struct {
	GuestService guest.GuestService
}

func NewGuestHandler(s guest.GuestService) *GuestHandler {
	return &GuestHandler{GuestService: s}
}

// ListGuests handles GET /api/hotels/:hotelID/guests?q=.
func (h *GuestHandler) ListGuests(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	guests, err := h.GuestService.ListGuests(c.Request.Context(), owner, c.Param("hotelID"), c.Query("q"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, guests)
}

func (h *GuestHandler) GetGuest(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	g, err := h.GuestService.GetGuest(c.Request.Context(), owner, c.Param("hotelID"), c.Param("guestID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, g)
}

// CreateGuest answers 201 for a new guest and 200 with the stored record when the email is
// already known to the hotel.
func (h *GuestHandler) CreateGuest(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.GuestInput
	if !bindJSON(c, &input) {
		return
	}
	g, created, err := h.GuestService.CreateGuest(c.Request.Context(), owner, c.Param("hotelID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.RespondData(c, status, g)
}

func (h *GuestHandler) UpdateGuest(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.GuestInput
	if !bindJSON(c, &input) {
		return
	}
	g, err := h.GuestService.UpdateGuest(c.Request.Context(), owner, c.Param("hotelID"), c.Param("guestID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, g)
}

func (h *GuestHandler) DeleteGuest(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.GuestService.DeleteGuest(c.Request.Context(), owner, c.Param("hotelID"), c.Param("guestID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"deleted": true})
}
