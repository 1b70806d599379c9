package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

// DefaultItemName is used when stock is added without an item name
const DefaultItemName = "Silver Fine"

// Movement is one append-only stock change for an item. CurrentStock is the
// item's running total after the movement and may be negative.
type Movement struct {
	shared.BaseEntity
	ItemName     string
	Sequence     int64
	WeightIn     decimal.Decimal
	WeightOut    decimal.Decimal
	CurrentStock decimal.Decimal
	BillID       *uuid.UUID
	Date         time.Time
}

// NormalizeItemName trims the name and applies the default
func NormalizeItemName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultItemName
	}
	return name
}

// NewInbound records weightIn added to stock after last (nil for a new item)
func NewInbound(itemName string, weightIn decimal.Decimal, last *Movement) (*Movement, error) {
	if !weightIn.IsPositive() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Weight in must be greater than zero")
	}
	return newMovement(NormalizeItemName(itemName), weightIn, decimal.Zero, last, nil), nil
}

// NewOutbound records weightOut taken from stock after last (nil for a new
// item). The resulting stock is allowed to go below zero.
func NewOutbound(itemName string, weightOut decimal.Decimal, last *Movement, billID *uuid.UUID) (*Movement, error) {
	if weightOut.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Weight out cannot be negative")
	}
	return newMovement(NormalizeItemName(itemName), decimal.Zero, weightOut, last, billID), nil
}

func newMovement(itemName string, in, out decimal.Decimal, last *Movement, billID *uuid.UUID) *Movement {
	var (
		sequence int64
		stock    = decimal.Zero
	)
	if last != nil {
		sequence = last.Sequence
		stock = last.CurrentStock
	}
	base := shared.NewBaseEntity()
	return &Movement{
		BaseEntity:   base,
		ItemName:     itemName,
		Sequence:     sequence + 1,
		WeightIn:     in,
		WeightOut:    out,
		CurrentStock: stock.Add(in).Sub(out),
		BillID:       billID,
		Date:         base.CreatedAt,
	}
}

// Summary is the aggregate stock position of one item
type Summary struct {
	ItemName     string
	TotalIn      decimal.Decimal
	TotalOut     decimal.Decimal
	CurrentStock decimal.Decimal
}

// Aggregate folds movements into per-item summaries sorted by item name.
// CurrentStock is taken from the highest-sequence movement of each item.
func Aggregate(movements []Movement) []Summary {
	type acc struct {
		Summary
		lastSeq int64
	}
	byItem := make(map[string]*acc)
	for _, m := range movements {
		a, ok := byItem[m.ItemName]
		if !ok {
			a = &acc{Summary: Summary{ItemName: m.ItemName, TotalIn: decimal.Zero, TotalOut: decimal.Zero}}
			byItem[m.ItemName] = a
		}
		a.TotalIn = a.TotalIn.Add(m.WeightIn)
		a.TotalOut = a.TotalOut.Add(m.WeightOut)
		if m.Sequence >= a.lastSeq {
			a.lastSeq = m.Sequence
			a.CurrentStock = m.CurrentStock
		}
	}

	out := make([]Summary, 0, len(byItem))
	for _, a := range byItem {
		out = append(out, a.Summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out
}
