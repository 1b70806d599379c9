package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/silverledger/backend/internal/application/billing"
)

// BillHandler handles bill endpoints
type BillHandler struct {
	BaseHandler
	billService *billingapp.Service
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *billingapp.Service) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create godoc
// @ID           createBill
// @Summary      Create a bill
// @Description  Prices every line on the server, carries the customer's previous balance,
// @Description  posts the bill to the ledger and deducts stock, all in one transaction.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client key that makes a retried POST safe"
// @Param        request body billingapp.CreateBillRequest true "Bill"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var req billingapp.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.billService.CreateBill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listBills
// @Summary      List bills newest first
// @Tags         bills
// @Produce      json
// @Param        customerId query string false "Only this customer's bills"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	customerID, ok := h.optionalUUIDQuery(c, "customerId")
	if !ok {
		return
	}
	filter := toFilter(req)
	if customerID != nil {
		filter.Filters["customer_id"] = *customerID
	}

	bills, err := h.billService.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, bills, len(bills), req)
}

// Get godoc
// @ID           getBill
// @Summary      Get a bill by id
// @Tags         bills
// @Produce      json
// @Param        id path string true "Bill ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c, "id")
	if !ok {
		return
	}

	resp, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
