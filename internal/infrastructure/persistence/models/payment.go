package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/payment"
)

// PaymentModel is the persistence model for a Payment
type PaymentModel struct {
	BaseModel
	CustomerID uuid.UUID       `gorm:"type:varchar(36);not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method     payment.Method  `gorm:"type:varchar(20);not null"`
	Date       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		Amount:     m.Amount,
		Method:     m.Method,
		Date:       m.Date,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
		Method:     p.Method,
		Date:       p.Date,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
