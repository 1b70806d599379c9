package customer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

// Customer is a shop customer and the owner of a running balance ledger.
// CurrentBalance is a cached copy of the balance on the customer's last
// ledger entry; it is written only together with that entry.
type Customer struct {
	shared.BaseAggregateRoot
	Name           string
	Mobile         string
	Address        string
	CurrentBalance decimal.Decimal
}

// NewCustomer creates a customer with a zero balance
func NewCustomer(name, mobile, address string) (*Customer, error) {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateMobile(mobile); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Mobile:            mobile,
		Address:           strings.TrimSpace(address),
		CurrentBalance:    decimal.Zero,
	}, nil
}

// UpdateDetails changes the identity fields. The balance is never touched here.
func (c *Customer) UpdateDetails(name, mobile, address string) error {
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if err := validateName(name); err != nil {
		return err
	}
	if err := validateMobile(mobile); err != nil {
		return err
	}

	c.Name = name
	c.Mobile = mobile
	c.Address = strings.TrimSpace(address)
	c.IncrementVersion()
	return nil
}

// ApplyBalance sets the cached balance to the balance produced by a ledger entry
func (c *Customer) ApplyBalance(balance decimal.Decimal) {
	c.CurrentBalance = balance
	c.IncrementVersion()
}

// HasOutstanding reports whether the customer owes the shop money
func (c *Customer) HasOutstanding() bool {
	return c.CurrentBalance.IsPositive()
}

// Summary is the small projection embedded in bills and ledger views
type Summary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Mobile         string          `json:"mobile"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// Summarize returns the customer projection used by other views
func (c *Customer) Summarize() Summary {
	return Summary{
		ID:             c.ID.String(),
		Name:           c.Name,
		Mobile:         c.Mobile,
		CurrentBalance: c.CurrentBalance,
	}
}

// StartOfDay returns local midnight for t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateMobile(mobile string) error {
	if utf8.RuneCountInString(mobile) > 20 {
		return shared.NewDomainError("INVALID_MOBILE", "Mobile number cannot exceed 20 characters")
	}
	return nil
}
