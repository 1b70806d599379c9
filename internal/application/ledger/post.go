package ledger

import (
	"context"
	"fmt"

	"github.com/silverledger/backend/internal/application/uow"
	"github.com/silverledger/backend/internal/domain/customer"
	"github.com/silverledger/backend/internal/domain/ledger"
)

// Post appends an entry to the customer's ledger and moves the cached
// balance with it. It runs inside a unit of work whose caller holds the
// customer's key lock.
func Post(ctx context.Context, repos uow.Repositories, p ledger.Posting) (*ledger.Entry, error) {
	c, err := repos.Customers().FindByIDForUpdate(ctx, p.CustomerID)
	if err != nil {
		return nil, err
	}
	return PostLocked(ctx, repos, c, p)
}

// PostLocked is Post for a customer already read FOR UPDATE in the same
// transaction. The prior balance is the customer's cached balance.
func PostLocked(ctx context.Context, repos uow.Repositories, c *customer.Customer, p ledger.Posting) (*ledger.Entry, error) {
	p.CustomerID = c.ID

	var lastSequence int64
	last, err := repos.Ledger().FindLast(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("read last ledger entry: %w", err)
	}
	if last != nil {
		lastSequence = last.Sequence
	}

	entry, err := ledger.NewEntry(p, lastSequence, c.CurrentBalance)
	if err != nil {
		return nil, err
	}
	if err := repos.Ledger().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	c.ApplyBalance(entry.Balance)
	if err := repos.Customers().SaveWithLock(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer balance: %w", err)
	}
	return entry, nil
}
