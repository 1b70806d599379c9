package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

// Bill is an immutable sales invoice. Totals are derived once at creation.
type Bill struct {
	shared.BaseEntity
	BillNumber         int64
	CustomerID         uuid.UUID
	Items              []LineItem
	Subtotal           decimal.Decimal
	TotalMakingCharges decimal.Decimal
	PreviousBalance    decimal.Decimal
	TotalPayable       decimal.Decimal
	PaidAmount         decimal.Decimal
	RemainingBalance   decimal.Decimal
	Date               time.Time
}

// Draft holds a bill's priced lines before it is numbered and bound to a
// balance. Building the draft outside the transaction keeps validation
// failures free of side effects.
type Draft struct {
	CustomerID         uuid.UUID
	Items              []LineItem
	Subtotal           decimal.Decimal
	TotalMakingCharges decimal.Decimal
	PaidAmount         decimal.Decimal
}

// NewDraft prices every line and totals the bill
func NewDraft(customerID uuid.UUID, inputs []LineItemInput, paidAmount decimal.Decimal, tolerance decimal.Decimal) (*Draft, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Bill must contain at least one item")
	}
	if paidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}

	d := &Draft{
		CustomerID:         customerID,
		Items:              make([]LineItem, 0, len(inputs)),
		Subtotal:           decimal.Zero,
		TotalMakingCharges: decimal.Zero,
		PaidAmount:         paidAmount,
	}
	for i, in := range inputs {
		item, err := NewLineItem(in, tolerance)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return nil, shared.NewDomainError(de.Code, fmt.Sprintf("item %d: %s", i+1, de.Message))
			}
			return nil, err
		}
		d.Items = append(d.Items, item)
		d.Subtotal = d.Subtotal.Add(item.Amount)
		d.TotalMakingCharges = d.TotalMakingCharges.Add(item.MakingTotal())
	}
	d.TotalMakingCharges = d.TotalMakingCharges.Round(amountPlaces)
	return d, nil
}

// TotalFine returns the fine weight of all lines
func (d *Draft) TotalFine() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Fine)
	}
	return total
}

// Finalize numbers the draft and binds it to the customer's balance read at
// the start of the bill transaction.
func (d *Draft) Finalize(billNumber int64, previousBalance decimal.Decimal) *Bill {
	base := shared.NewBaseEntity()
	totalPayable := d.Subtotal.Add(previousBalance)
	return &Bill{
		BaseEntity:         base,
		BillNumber:         billNumber,
		CustomerID:         d.CustomerID,
		Items:              d.Items,
		Subtotal:           d.Subtotal,
		TotalMakingCharges: d.TotalMakingCharges,
		PreviousBalance:    previousBalance,
		TotalPayable:       totalPayable,
		PaidAmount:         d.PaidAmount,
		RemainingBalance:   totalPayable.Sub(d.PaidAmount),
		Date:               base.CreatedAt,
	}
}

// Description is the ledger description of the bill
func (b *Bill) Description() string {
	return fmt.Sprintf("Bill #%d", b.BillNumber)
}

// Charge is the amount this bill adds to the customer's balance
func (b *Bill) Charge() decimal.Decimal {
	return b.TotalPayable.Sub(b.PreviousBalance)
}
