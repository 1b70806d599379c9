package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/billing"
)

// BillModel is the persistence model for a Bill
type BillModel struct {
	BaseModel
	BillNumber         int64           `gorm:"not null;uniqueIndex:idx_bills_bill_number"`
	CustomerID         uuid.UUID       `gorm:"type:varchar(36);not null;index"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalMakingCharges decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PreviousBalance    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPayable       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingBalance   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Date               time.Time       `gorm:"not null;index"`
	Items              []BillItemModel `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// BillItemModel is one line item of a bill. Position keeps the caller's order.
type BillItemModel struct {
	ID           uuid.UUID       `gorm:"type:varchar(36);primaryKey"`
	BillID       uuid.UUID       `gorm:"type:varchar(36);not null;index"`
	Position     int             `gorm:"not null"`
	Description  string          `gorm:"type:varchar(200);not null"`
	Quantity     int             `gorm:"not null;default:1"`
	Weight       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Touch        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Fine         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MakingCharge decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (BillItemModel) TableName() string {
	return "bill_items"
}

// ToDomain converts the persistence model to a domain Bill
func (m *BillModel) ToDomain() *billing.Bill {
	items := make([]billing.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = billing.LineItem{
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
	return &billing.Bill{
		BaseEntity:         m.BaseModel.ToDomain(),
		BillNumber:         m.BillNumber,
		CustomerID:         m.CustomerID,
		Items:              items,
		Subtotal:           m.Subtotal,
		TotalMakingCharges: m.TotalMakingCharges,
		PreviousBalance:    m.PreviousBalance,
		TotalPayable:       m.TotalPayable,
		PaidAmount:         m.PaidAmount,
		RemainingBalance:   m.RemainingBalance,
		Date:               m.Date,
	}
}

// BillModelFromDomain creates a new persistence model from a domain Bill
func BillModelFromDomain(b *billing.Bill) *BillModel {
	m := &BillModel{
		BillNumber:         b.BillNumber,
		CustomerID:         b.CustomerID,
		Subtotal:           b.Subtotal,
		TotalMakingCharges: b.TotalMakingCharges,
		PreviousBalance:    b.PreviousBalance,
		TotalPayable:       b.TotalPayable,
		PaidAmount:         b.PaidAmount,
		RemainingBalance:   b.RemainingBalance,
		Date:               b.Date,
		Items:              make([]BillItemModel, len(b.Items)),
	}
	m.FromDomainBaseEntity(b.BaseEntity)
	for i, it := range b.Items {
		m.Items[i] = BillItemModel{
			ID:           uuid.New(),
			BillID:       b.ID,
			Position:     i,
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
	return m
}

// SequenceModel is a named counter row used for atomic fetch-and-increment
type SequenceModel struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "sequences"
}
