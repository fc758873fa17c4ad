package handlers

import (
	"net/http"

	"innkeep/services/invoice"
	"innkeep/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	InvoiceService invoice.InvoiceService
}

func NewInvoiceHandler(s invoice.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{InvoiceService: s}
}

// ListInvoices handles GET /api/hotels/:hotelID/invoices?status=.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	invoices, err := h.InvoiceService.ListInvoices(c.Request.Context(), owner, c.Param("hotelID"), c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondData(c, http.StatusOK, invoices)
}

// IssueInvoice returns the booking's invoice, creating it on first call.
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	inv, created, err := h.InvoiceService.IssueInvoice(c.Request.Context(), owner, c.Param("hotelID"), c.Param("bookingID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.RespondData(c, status, inv)
}
