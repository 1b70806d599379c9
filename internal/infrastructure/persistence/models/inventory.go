package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/inventory"
)

// StockMovementModel is the persistence model for a stock movement
type StockMovementModel struct {
	BaseModel
	ItemName     string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_stock_item_sequence,priority:1"`
	Sequence     int64           `gorm:"not null;uniqueIndex:idx_stock_item_sequence,priority:2"`
	WeightIn     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WeightOut    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BillID       *uuid.UUID      `gorm:"type:varchar(36);index"`
	Date         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain Movement
func (m *StockMovementModel) ToDomain() *inventory.Movement {
	return &inventory.Movement{
		BaseEntity:   m.BaseModel.ToDomain(),
		ItemName:     m.ItemName,
		Sequence:     m.Sequence,
		WeightIn:     m.WeightIn,
		WeightOut:    m.WeightOut,
		CurrentStock: m.CurrentStock,
		BillID:       m.BillID,
		Date:         m.Date,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain Movement
func StockMovementModelFromDomain(mv *inventory.Movement) *StockMovementModel {
	m := &StockMovementModel{
		ItemName:     mv.ItemName,
		Sequence:     mv.Sequence,
		WeightIn:     mv.WeightIn,
		WeightOut:    mv.WeightOut,
		CurrentStock: mv.CurrentStock,
		BillID:       mv.BillID,
		Date:         mv.Date,
	}
	m.FromDomainBaseEntity(mv.BaseEntity)
	return m
}
