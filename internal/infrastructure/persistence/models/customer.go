package models

import (
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/customer"
)

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	AggregateModel
	Name           string          `gorm:"type:varchar(200);not null;index"`
	Mobile         string          `gorm:"type:varchar(20);index"`
	Address        string          `gorm:"type:text"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Mobile:            m.Mobile,
		Address:           m.Address,
		CurrentBalance:    m.CurrentBalance,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Mobile = c.Mobile
	m.Address = c.Address
	m.CurrentBalance = c.CurrentBalance
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
