package customer

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/ledger"
)

// CreateCustomerRequest creates a customer, optionally with an opening balance
type CreateCustomerRequest struct {
	Name           string           `json:"name" binding:"required,max=200"`
	Mobile         string           `json:"mobile" binding:"max=20"`
	Address        string           `json:"address" binding:"max=500"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
}

// UpdateCustomerRequest replaces a customer's identity fields
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Mobile  string `json:"mobile" binding:"max=20"`
	Address string `json:"address" binding:"max=500"`
}

// CustomerResponse is a customer with its cached balance
type CustomerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Mobile         string          `json:"mobile"`
	Address        string          `json:"address"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ToCustomerResponse converts a domain customer to its response
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Mobile:         c.Mobile,
		Address:        c.Address,
		CurrentBalance: c.CurrentBalance,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ReconcileReport compares a customer's cached balance with its ledger
type ReconcileReport struct {
	CustomerID    string              `json:"customerId"`
	Name          string              `json:"name"`
	CachedBalance decimal.Decimal     `json:"cachedBalance"`
	LedgerBalance decimal.Decimal     `json:"ledgerBalance"`
	Drift         decimal.Decimal     `json:"drift"`
	Entries       int                 `json:"entries"`
	Breaks        []ledger.ChainBreak `json:"breaks,omitempty"`
	Repaired      bool                `json:"repaired"`
}

// Consistent reports whether the cache matches the ledger and the chain is intact
func (r ReconcileReport) Consistent() bool {
	return r.Drift.IsZero() && len(r.Breaks) == 0
}

// ReconcileSummary is the result of reconciling every customer. Reports
// only lists customers that were not consistent.
type ReconcileSummary struct {
	Checked  int               `json:"checked"`
	Drifted  int               `json:"drifted"`
	Broken   int               `json:"broken"`
	Repaired int               `json:"repaired"`
	Reports  []ReconcileReport `json:"reports"`
}
