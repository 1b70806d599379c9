package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/billing"
)

// LineItemRequest is one line of a bill as typed at the counter. Fine and
// Amount are optional client-side figures checked against the server's.
type LineItemRequest struct {
	Description  string           `json:"description" binding:"required,max=200"`
	Quantity     int              `json:"quantity" binding:"min=0"`
	Weight       decimal.Decimal  `json:"weight"`
	Touch        decimal.Decimal  `json:"touch"`
	Rate         decimal.Decimal  `json:"rate"`
	MakingCharge decimal.Decimal  `json:"makingCharge"`
	Fine         *decimal.Decimal `json:"fine"`
	Amount       *decimal.Decimal `json:"amount"`
}

// CreateBillRequest creates a bill for an existing customer
type CreateBillRequest struct {
	CustomerID string            `json:"customerId" binding:"required,uuid"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	PaidAmount *decimal.Decimal  `json:"paidAmount"`
}

// LineItemResponse is a priced bill line
type LineItemResponse struct {
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	Weight       decimal.Decimal `json:"weight"`
	Touch        decimal.Decimal `json:"touch"`
	Fine         decimal.Decimal `json:"fine"`
	Rate         decimal.Decimal `json:"rate"`
	MakingCharge decimal.Decimal `json:"makingCharge"`
	Amount       decimal.Decimal `json:"amount"`
}

// BillResponse is a bill with its customer's name and mobile
type BillResponse struct {
	ID                 string             `json:"id"`
	BillNumber         int64              `json:"billNumber"`
	CustomerID         string             `json:"customerId"`
	CustomerName       string             `json:"customerName"`
	CustomerMobile     string             `json:"customerMobile"`
	Items              []LineItemResponse `json:"items"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	TotalMakingCharges decimal.Decimal    `json:"totalMakingCharges"`
	PreviousBalance    decimal.Decimal    `json:"previousBalance"`
	TotalPayable       decimal.Decimal    `json:"totalPayable"`
	PaidAmount         decimal.Decimal    `json:"paidAmount"`
	RemainingBalance   decimal.Decimal    `json:"remainingBalance"`
	Date               time.Time          `json:"date"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// ToBillResponse converts a domain bill to its response
func ToBillResponse(b *billing.Bill, customerName, customerMobile string) BillResponse {
	items := make([]LineItemResponse, len(b.Items))
	for i, it := range b.Items {
		items[i] = LineItemResponse{
			Description:  it.Description,
			Quantity:     it.Quantity,
			Weight:       it.Weight,
			Touch:        it.Touch,
			Fine:         it.Fine,
			Rate:         it.Rate,
			MakingCharge: it.MakingCharge,
			Amount:       it.Amount,
		}
	}
	return BillResponse{
		ID:                 b.ID.String(),
		BillNumber:         b.BillNumber,
		CustomerID:         b.CustomerID.String(),
		CustomerName:       customerName,
		CustomerMobile:     customerMobile,
		Items:              items,
		Subtotal:           b.Subtotal,
		TotalMakingCharges: b.TotalMakingCharges,
		PreviousBalance:    b.PreviousBalance,
		TotalPayable:       b.TotalPayable,
		PaidAmount:         b.PaidAmount,
		RemainingBalance:   b.RemainingBalance,
		Date:               b.Date,
		CreatedAt:          b.CreatedAt,
	}
}

func toLineItemInputs(items []LineItemRequest) []billing.LineItemInput {
	inputs := make([]billing.LineItemInput, len(items))
	for i, it := range items {
		inputs[i] = billing.LineItemInput{
			Description:  it.Description,
			Quantity:     it.Quantity,
			Weight:       it.Weight,
			Touch:        it.Touch,
			Rate:         it.Rate,
			MakingCharge: it.MakingCharge,
			Fine:         it.Fine,
			Amount:       it.Amount,
		}
	}
	return inputs
}
