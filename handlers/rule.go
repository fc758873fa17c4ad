package handlers

import (
	"net/http"
	"strconv"

	"innkeep/models"
	"innkeep/services/rule"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	RuleService rule.RuleService
}

func NewRuleHandler(s rule.RuleService) *RuleHandler {
	return &RuleHandler{RuleService: s}
}

// ListRules handles GET /api/hotels/:hotelID/rules?active=true.
func (h *RuleHandler) ListRules(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid active filter", raw)
			return
		}
		activeOnly = v
	}
	rules, err := h.RuleService.ListRules(c.Request.Context(), owner, c.Param("hotelID"), activeOnly)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, rules)
}

func (h *RuleHandler) GetRule(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	r, err := h.RuleService.GetRule(c.Request.Context(), owner, c.Param("hotelID"), c.Param("ruleID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, r)
}

func (h *RuleHandler) CreateRule(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.BookingRuleInput
	if !bindJSON(c, &input) {
		return
	}
	r, err := h.RuleService.CreateRule(c.Request.Context(), owner, c.Param("hotelID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusCreated, r)
}

func (h *RuleHandler) UpdateRule(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	var input models.BookingRuleInput
	if !bindJSON(c, &input) {
		return
	}
	r, err := h.RuleService.UpdateRule(c.Request.Context(), owner, c.Param("hotelID"), c.Param("ruleID"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, r)
}

func (h *RuleHandler) DeleteRule(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.RuleService.DeleteRule(c.Request.Context(), owner, c.Param("hotelID"), c.Param("ruleID")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"deleted": true})
}
