package handler

import (
	"github.com/gin-gonic/gin"
	paymentapp "github.com/silverledger/backend/internal/application/payment"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record godoc
// @ID           recordPayment
// @Summary      Record money received from a customer
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client key that makes a retried POST safe"
// @Param        request body paymentapp.RecordPaymentRequest true "Payment"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req paymentapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.paymentService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listPayments
// @Summary      List payments newest first
// @Tags         payments
// @Produce      json
// @Param        customerId query string false "Only this customer's payments"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	req, ok := h.bindList(c)
	if !ok {
		return
	}
	customerID, ok := h.optionalUUIDQuery(c, "customerId")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), customerID, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, payments, len(payments), req)
}
