package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/ledger"
)

// LedgerEntryModel is the persistence model for a ledger entry
type LedgerEntryModel struct {
	BaseModel
	CustomerID    uuid.UUID            `gorm:"type:varchar(36);not null;uniqueIndex:idx_ledger_customer_sequence,priority:1"`
	Sequence      int64                `gorm:"not null;uniqueIndex:idx_ledger_customer_sequence,priority:2"`
	Date          time.Time            `gorm:"not null"`
	Description   string               `gorm:"type:varchar(255);not null"`
	Debit         decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Credit        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Balance       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	ReferenceType ledger.ReferenceType `gorm:"type:varchar(20);not null"`
	ReferenceID   *uuid.UUID           `gorm:"type:varchar(36);index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain Entry
func (m *LedgerEntryModel) ToDomain() *ledger.Entry {
	return &ledger.Entry{
		BaseEntity:    m.BaseModel.ToDomain(),
		CustomerID:    m.CustomerID,
		Sequence:      m.Sequence,
		Date:          m.Date,
		Description:   m.Description,
		Debit:         m.Debit,
		Credit:        m.Credit,
		Balance:       m.Balance,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
	}
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain Entry
func LedgerEntryModelFromDomain(e *ledger.Entry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		CustomerID:    e.CustomerID,
		Sequence:      e.Sequence,
		Date:          e.Date,
		Description:   e.Description,
		Debit:         e.Debit,
		Credit:        e.Credit,
		Balance:       e.Balance,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
