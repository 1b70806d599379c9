package payment

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/payment"
)

// RecordPaymentRequest records money received from a customer
type RecordPaymentRequest struct {
	CustomerID string          `json:"customerId" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method" binding:"required,oneof=Cash UPI Bank Partial"`
}

// PaymentResponse is a recorded payment
type PaymentResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Date       time.Time       `json:"date"`
}

// ToPaymentResponse converts a domain payment to its response
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID.String(),
		CustomerID: p.CustomerID.String(),
		Amount:     p.Amount,
		Method:     string(p.Method),
		Date:       p.Date,
	}
}
