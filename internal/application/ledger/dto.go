package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/ledger"
)

// ManualEntryRequest is a staff-entered adjustment to a customer's balance
type ManualEntryRequest struct {
	Description string           `json:"description" binding:"required,max=255"`
	Debit       *decimal.Decimal `json:"debit"`
	Credit      *decimal.Decimal `json:"credit"`
}

// EntryResponse is one ledger line
type EntryResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	Sequence      int64           `json:"sequence"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	ReferenceType string          `json:"referenceType"`
	ReferenceID   *string         `json:"referenceId,omitempty"`
}

// LedgerResponse is a customer's full ledger
type LedgerResponse struct {
	Customer customer.Summary `json:"customer"`
	Entries  []EntryResponse  `json:"entries"`
}

// ToEntryResponse converts a domain entry to its response
func ToEntryResponse(e *ledger.Entry) EntryResponse {
	resp := EntryResponse{
		ID:            e.ID.String(),
		CustomerID:    e.CustomerID.String(),
		Sequence:      e.Sequence,
		Date:          e.Date,
		Description:   e.Description,
		Debit:         e.Debit,
		Credit:        e.Credit,
		Balance:       e.Balance,
		ReferenceType: string(e.ReferenceType),
	}
	if e.ReferenceID != nil {
		ref := e.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}
