package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/inventory"
)

// AddStockRequest records silver received into stock
type AddStockRequest struct {
	ItemName string          `json:"itemName" binding:"max=200"`
	WeightIn decimal.Decimal `json:"weightIn"`
}

// MovementResponse is one stock log line
type MovementResponse struct {
	ID           string          `json:"id"`
	ItemName     string          `json:"itemName"`
	Sequence     int64           `json:"sequence"`
	WeightIn     decimal.Decimal `json:"weightIn"`
	WeightOut    decimal.Decimal `json:"weightOut"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	BillID       *string         `json:"billId,omitempty"`
	Date         time.Time       `json:"date"`
}

// SummaryResponse is the stock position of one item
type SummaryResponse struct {
	ItemName     string          `json:"itemName"`
	TotalIn      decimal.Decimal `json:"totalIn"`
	TotalOut     decimal.Decimal `json:"totalOut"`
	CurrentStock decimal.Decimal `json:"currentStock"`
}

// ToMovementResponse converts a domain movement to its response
func ToMovementResponse(m *inventory.Movement) MovementResponse {
	resp := MovementResponse{
		ID:           m.ID.String(),
		ItemName:     m.ItemName,
		Sequence:     m.Sequence,
		WeightIn:     m.WeightIn,
		WeightOut:    m.WeightOut,
		CurrentStock: m.CurrentStock,
		Date:         m.Date,
	}
	if m.BillID != nil {
		id := m.BillID.String()
		resp.BillID = &id
	}
	return resp
}
