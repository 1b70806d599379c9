package handler

import (
	"github.com/gin-gonic/gin"
	ledgerapp "github.com/silverledger/backend/internal/application/ledger"
)

// LedgerHandler handles ledger views and manual entries
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.Service
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.Service) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Get godoc
// @ID           getLedger
// @Summary      Get a customer's ledger in posting order
// @Tags         ledger
// @Produce      json
// @Param        customerId path string true "Customer ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /ledger/{customerId} [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	customerID, ok := h.bindID(c, "customerId")
	if !ok {
		return
	}

	resp, err := h.ledgerService.GetLedger(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddEntry godoc
// @ID           addLedgerEntry
// @Summary      Post a manual debit or credit
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        customerId path string true "Customer ID"
// @Param        request body ledgerapp.ManualEntryRequest true "Entry"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /ledger/{customerId} [post]
func (h *LedgerHandler) AddEntry(c *gin.Context) {
	customerID, ok := h.bindID(c, "customerId")
	if !ok {
		return
	}
	var req ledgerapp.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.ledgerService.AddManualEntry(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
