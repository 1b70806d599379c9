package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

// Method is how the customer paid
type Method string

const (
	MethodCash    Method = "Cash"
	MethodUPI     Method = "UPI"
	MethodBank    Method = "Bank"
	MethodPartial Method = "Partial"
)

// IsValid checks if the method is accepted by the shop
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodUPI, MethodBank, MethodPartial:
		return true
	}
	return false
}

// Payment is money received from a customer. Each payment is credited to the
// customer's ledger exactly once.
type Payment struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	Method     Method
	Date       time.Time
}

// NewPayment creates a payment
func NewPayment(customerID uuid.UUID, amount decimal.Decimal, method Method) (*Payment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be greater than zero")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unsupported payment method %q", method))
	}

	base := shared.NewBaseEntity()
	return &Payment{
		BaseEntity: base,
		CustomerID: customerID,
		Amount:     amount,
		Method:     method,
		Date:       base.CreatedAt,
	}, nil
}

// LedgerDescription is the description of the ledger credit for the payment
func (p *Payment) LedgerDescription() string {
	return "Payment Received - " + string(p.Method)
}

// Repository persists payments
type Repository interface {
	// Save inserts a payment
	Save(ctx context.Context, payment *Payment) error

	// FindAll lists payments newest first, optionally for one customer
	FindAll(ctx context.Context, customerID *uuid.UUID, filter shared.Filter) ([]Payment, error)
}
