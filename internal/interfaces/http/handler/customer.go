package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	customerapp "github.com/silverledger/backend/internal/application/customer"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
)

// CustomerHandler handles customer endpoints and reconciliation
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *customerapp.Service) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer, optionally with an opening balance
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers, filtered by name or mobile keyword
// @Tags         customers
// @Produce      json
// @Param        keyword query string false "Name or mobile fragment"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}

	customers, err := h.customerService.List(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, customers, len(customers), req)
}

// Get godoc
// @ID           getCustomer
// @Summary      Get a customer by id
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c, "id")
	if !ok {
		return
	}

	resp, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer's name, mobile and address
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID"
// @Param        request body customerapp.UpdateCustomerRequest true "Customer"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c, "id")
	if !ok {
		return
	}
	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer and its ledger
// @Tags         customers
// @Param        id path string true "Customer ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id.String(), "deleted": true})
}

// ReconcileAll godoc
// @ID           reconcileAll
// @Summary      Compare every cached balance with its ledger
// @Description  With repair=true, drifted balances are rewritten from the ledger.
// @Tags         admin
// @Produce      json
// @Param        repair query bool false "Rewrite drifted balances"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/reconcile [post]
func (h *CustomerHandler) ReconcileAll(c *gin.Context) {
	repair, ok := h.repairFlag(c)
	if !ok {
		return
	}

	summary, err := h.customerService.ReconcileAll(c.Request.Context(), repair)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Reconcile checks a single customer
func (h *CustomerHandler) Reconcile(c *gin.Context) {
	id, ok := h.bindID(c, "customerId")
	if !ok {
		return
	}
	repair, ok := h.repairFlag(c)
	if !ok {
		return
	}

	report, err := h.customerService.Reconcile(c.Request.Context(), id, repair)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

func (h *CustomerHandler) repairFlag(c *gin.Context) (bool, bool) {
	raw := c.Query("repair")
	if raw == "" {
		return false, true
	}
	repair, err := strconv.ParseBool(raw)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "repair must be true or false")
		return false, false
	}
	return repair, true
}
