// Package uow defines the unit-of-work boundary used by every operation that
// changes a customer balance, the bill counter or a stock running total.
package uow

import (
	"context"

	"github.com/silverledger/backend/internal/domain/billing"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/inventory"
	"github.com/silverledger/backend/internal/domain/ledger"
	"github.com/silverledger/backend/internal/domain/payment"
)

// TransactionScope provides transactional access to the repositories.
// All repository operations inside fn are part of one database transaction
// that is committed when fn returns nil and rolled back otherwise.
//
// Implementations may run fn more than once when the transaction loses a
// concurrency race (version mismatch or unique violation on a sequence), so
// fn must read everything it depends on through repos and must not have
// side effects outside them.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to every repository bound to the current transaction
type Repositories interface {
	Customers() customer.Repository
	Ledger() ledger.Repository
	Bills() billing.Repository
	Sequences() billing.SequenceRepository
	Payments() payment.Repository
	Stock() inventory.Repository
}

// NoOpTransactionScope runs fn once against fixed repositories without a
// transaction. It is used by tests with in-memory fakes.
type NoOpTransactionScope struct {
	customers customer.Repository
	entries   ledger.Repository
	bills     billing.Repository
	sequences billing.SequenceRepository
	payments  payment.Repository
	stock     inventory.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	customers customer.Repository,
	entries ledger.Repository,
	bills billing.Repository,
	sequences billing.SequenceRepository,
	payments payment.Repository,
	stock inventory.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customers: customers,
		entries:   entries,
		bills:     bills,
		sequences: sequences,
		payments:  payments,
		stock:     stock,
	}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Customers() customer.Repository { return s.customers }
func (s *NoOpTransactionScope) Ledger() ledger.Repository { return s.entries }
func (s *NoOpTransactionScope) Bills() billing.Repository { return s.bills }
func (s *NoOpTransactionScope) Sequences() billing.SequenceRepository { return s.sequences }
func (s *NoOpTransactionScope) Payments() payment.Repository { return s.payments }
func (s *NoOpTransactionScope) Stock() inventory.Repository { return s.stock }

var (
	_ TransactionScope = (*NoOpTransactionScope)(nil)
	_ Repositories     = (*NoOpTransactionScope)(nil)
)
