package handlers

import (
	"net/http"

	unitRepo "innkeep/database/repository/unit"
	"innkeep/models"
	"innkeep/services/unit"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	UnitService unit.UnitService
}

func NewUnitHandler(s unit.UnitService) *UnitHandler {
	return &UnitHandler{UnitService: s}
}

// ListUnits handles GET /api/hotels/:hotelID/units?status=&type=.
func (h *UnitHandler) ListUnits(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	filter := unitRepo.UnitFilter{
		Status: models.UnitStatus(c.Query("status")),
		Type:   c.Query("type"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		utils.JSONError(c, http.StatusBadRequest, "Invalid status filter", string(filter.Status))
		return
	}
	units, err := h.UnitService.ListUnits(c.Request.Context(), owner, c.Param("hotelID"), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, units)
}

func (h *UnitHandler) GetUnit(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	u, err := h.UnitService.GetUnit(c.Request.Context(), owner, c.Param("hotelID"), c.Param("unitID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, u)
}

func (h *UnitHandler) CreateUnit(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.UnitInput
	if !bindJSON(c, &input) {
		return
	}
	u, err := h.UnitService.CreateUnit(c.Request.Context(), owner, c.Param("hotelID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, u)
}

func (h *UnitHandler) UpdateUnit(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.UnitInput
	if !bindJSON(c, &input) {
		return
	}
	u, err := h.UnitService.UpdateUnit(c.Request.Context(), owner, c.Param("hotelID"), c.Param("unitID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, u)
}

// DeleteUnit refuses with 409 while the unit still has bookings.
func (h *UnitHandler) DeleteUnit(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.UnitService.DeleteUnit(c.Request.Context(), owner, c.Param("hotelID"), c.Param("unitID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"deleted": true})
}
