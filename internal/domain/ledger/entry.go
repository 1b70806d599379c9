package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/silverledger/backend/internal/domain/shared"
)

// ReferenceType identifies what produced a ledger entry
type ReferenceType string

const (
	ReferenceOpening ReferenceType = "OPENING"
	ReferenceBill    ReferenceType = "BILL"
	ReferencePayment ReferenceType = "PAYMENT"
	ReferenceManual  ReferenceType = "MANUAL"
)

// IsValid checks if the reference type is known
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferenceOpening, ReferenceBill, ReferencePayment, ReferenceManual:
		return true
	}
	return false
}

// OpeningBalanceDescription is the description of the entry created with a
// customer that starts with a non-zero balance
const OpeningBalanceDescription = "Opening Balance"

// Entry is one row of a customer's running-balance ledger. Entries are
// append-only; Balance is the customer's balance after this entry.
type Entry struct {
	shared.BaseEntity
	CustomerID    uuid.UUID
	Sequence      int64
	Date          time.Time
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Balance       decimal.Decimal
	ReferenceType ReferenceType
	ReferenceID   *uuid.UUID
}

// Posting describes an entry to be appended. The balance and sequence are
// filled in from the customer's current state by NewEntry.
type Posting struct {
	CustomerID    uuid.UUID
	Description   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	ReferenceType ReferenceType
	ReferenceID   *uuid.UUID
}

// NextBalance returns prior + debit - credit
func NextBalance(prior, debit, credit decimal.Decimal) decimal.Decimal {
	return prior.Add(debit).Sub(credit)
}

// NewEntry builds the entry that follows an entry with the given sequence
// and balance (0 and zero for a customer without entries).
func NewEntry(p Posting, lastSequence int64, priorBalance decimal.Decimal) (*Entry, error) {
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Ledger entry description cannot be empty")
	}
	if p.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Ledger entry requires a customer")
	}
	if p.Debit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debit cannot be negative")
	}
	if p.Credit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit cannot be negative")
	}
	ref := p.ReferenceType
	if ref == "" {
		ref = ReferenceManual
	}
	if !ref.IsValid() {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Unknown ledger reference type")
	}

	base := shared.NewBaseEntity()
	return &Entry{
		BaseEntity:    base,
		CustomerID:    p.CustomerID,
		Sequence:      lastSequence + 1,
		Date:          base.CreatedAt,
		Description:   description,
		Debit:         p.Debit,
		Credit:        p.Credit,
		Balance:       NextBalance(priorBalance, p.Debit, p.Credit),
		ReferenceType: ref,
		ReferenceID:   p.ReferenceID,
	}, nil
}

// ValidateManual applies the extra rules for entries typed in by staff
func ValidateManual(p Posting) error {
	if strings.TrimSpace(p.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	if p.Debit.IsNegative() || p.Credit.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit and credit cannot be negative")
	}
	if !p.Debit.Add(p.Credit).IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Either debit or credit must be greater than zero")
	}
	return nil
}
