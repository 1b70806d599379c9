package models

import (
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/rate"
)

// SilverRateModel is the persistence model for a silver rate observation
type SilverRateModel struct {
	BaseModel
	Rate   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Source rate.Source     `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (SilverRateModel) TableName() string {
	return "silver_rates"
}

// ToDomain converts the persistence model to a domain SilverRate
func (m *SilverRateModel) ToDomain() *rate.SilverRate {
	return &rate.SilverRate{
		BaseEntity: m.BaseModel.ToDomain(),
		Rate:       m.Rate,
		Source:     m.Source,
	}
}

// SilverRateModelFromDomain creates a new persistence model from a domain SilverRate
func SilverRateModelFromDomain(r *rate.SilverRate) *SilverRateModel {
	m := &SilverRateModel{Rate: r.Rate, Source: r.Source}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
